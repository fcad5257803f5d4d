package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		typ  Type
		want string
	}{
		{WalkStarted, "WalkStarted"},
		{PlanComplete, "PlanComplete"},
		{FileStarted, "FileStarted"},
		{FileCopied, "FileCopied"},
		{FileMoved, "FileMoved"},
		{FileDeleted, "FileDeleted"},
		{DirCreated, "DirCreated"},
		{DirDeleted, "DirDeleted"},
		{OpFailed, "OpFailed"},
		{OpSkipped, "OpSkipped"},
		{VerifyStarted, "VerifyStarted"},
		{VerifyOK, "VerifyOK"},
		{VerifyFailed, "VerifyFailed"},
		{Type(0), "Unknown"},
		{Type(99), "Unknown"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.typ.String())
	}
}
