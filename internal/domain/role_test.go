package domain

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
		ok   bool
	}{
		{raw: "student", want: RoleStudent, ok: true},
		{raw: " College ", want: RoleCollege, ok: true},
		{raw: "admin", ok: false},
		{raw: "", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ParseRole(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRole_DoesNotAliasInput(t *testing.T) {
	buf := []byte("student")
	raw := unsafe.String(&buf[0], len(buf))

	role, ok := ParseRole(raw)
	copy(buf, "nt/prof")

	assert.True(t, ok)
	assert.Equal(t, RoleStudent, role)
}
