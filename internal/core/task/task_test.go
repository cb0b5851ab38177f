package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvocationCommandLine(t *testing.T) {
	tests := []struct {
		name string
		inv  Invocation
		want string
	}{
		{
			name: "plain",
			inv:  Invocation{Command: "make", Args: []string{"build"}},
			want: "make build",
		},
		{
			name: "command with space",
			inv:  Invocation{Command: "/opt/apache ant/bin/ant", Args: []string{"dist"}},
			want: `"/opt/apache ant/bin/ant" dist`,
		},
		{
			name: "arg with space",
			inv:  Invocation{Command: "ant", Args: []string{"-f", "my build.xml", "dist"}},
			want: `ant -f "my build.xml" dist`,
		},
		{
			name: "no args",
			inv:  Invocation{Command: "gradle"},
			want: "gradle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inv.CommandLine())
		})
	}
}

func TestDescriptorID(t *testing.T) {
	a := Descriptor{Type: TypeMake, SourceFile: "/w/Makefile", Name: "build"}
	b := Descriptor{Type: TypeMake, SourceFile: "/w/Makefile", Name: "build", Display: "other"}
	c := Descriptor{Type: TypeMake, SourceFile: "/w/sub/Makefile", Name: "build"}

	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
}

func TestDescriptorDisplayName(t *testing.T) {
	d := Descriptor{Name: "dist"}
	assert.Equal(t, "dist", d.DisplayName())

	d.Display = "dist - Default"
	assert.Equal(t, "dist - Default", d.DisplayName())
}
