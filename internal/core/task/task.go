// Package task defines the normalized descriptor for one invocable
// build/automation task and its identity rules.
package task

import "strings"

// Type identifies the task source kind (the detector or provider that
// produced the descriptor).
type Type string

// Built-in detector types.
const (
	TypeAnt    Type = "ant"
	TypeGradle Type = "gradle"
	TypeMake   Type = "make"
	TypeNpm    Type = "npm"

	// Script types, one per interpreter.
	TypeBash       Type = "bash"
	TypeBatch      Type = "batch"
	TypePerl       Type = "perl"
	TypePowershell Type = "powershell"
	TypePython     Type = "python"
	TypeRuby       Type = "ruby"
	TypeNsis       Type = "nsis"

	// Pass-through types delivered by external providers.
	TypeGrunt Type = "grunt"
	TypeGulp  Type = "gulp"
	TypeTsc   Type = "tsc"
)

// KnownTypes lists every type taskscout understands, used for config
// validation and enable-flag lookups.
var KnownTypes = []Type{
	TypeAnt, TypeGradle, TypeMake, TypeNpm,
	TypeBash, TypeBatch, TypePerl, TypePowershell, TypePython, TypeRuby, TypeNsis,
	TypeGrunt, TypeGulp, TypeTsc,
}

// Invocation is the process triple handed to the execution layer.
type Invocation struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
	Dir     string   `json:"dir"`
}

// CommandLine renders the invocation as a single shell-style string,
// quoting the command or any argument containing whitespace. Execution
// uses the structured form; this is for display and logging.
func (i Invocation) CommandLine() string {
	parts := make([]string, 0, len(i.Args)+1)
	parts = append(parts, quoteIfNeeded(i.Command))
	for _, a := range i.Args {
		parts = append(parts, quoteIfNeeded(a))
	}
	return strings.Join(parts, " ")
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

// ID is the descriptor identity. Two descriptors with equal IDs are
// duplicates; the later one replaces the earlier in a cache.
type ID struct {
	Type       Type
	SourceFile string
	Name       string
}

// Descriptor is the common envelope for one invocable task. Per-type
// detail lives in Payload so consumers switch on Type instead of probing
// optional fields.
type Descriptor struct {
	Type         Type       `json:"type"`
	Name         string     `json:"name"`
	Display      string     `json:"display,omitempty"` // presentation name when it differs from Name
	SourceFile   string     `json:"source_file"`
	RelativePath string     `json:"relative_path"` // dir of SourceFile relative to Folder, "" = root
	Folder       string     `json:"folder"`        // owning workspace folder name
	Invocation   Invocation `json:"invocation"`
	RequiresArgs bool       `json:"requires_args,omitempty"`
	Default      bool       `json:"default,omitempty"`
	Payload      Payload    `json:"-"`
}

// ID returns the descriptor's identity key.
func (d Descriptor) ID() ID {
	return ID{Type: d.Type, SourceFile: d.SourceFile, Name: d.Name}
}

// DisplayName returns the presentation name, falling back to Name.
func (d Descriptor) DisplayName() string {
	if d.Display != "" {
		return d.Display
	}
	return d.Name
}

// Dedupe drops earlier descriptors in favor of later ones with the same
// identity, preserving the position of each identity's first sighting.
func Dedupe(descs []Descriptor) []Descriptor {
	byID := make(map[ID]int, len(descs))
	out := descs[:0]
	for _, d := range descs {
		if i, ok := byID[d.ID()]; ok {
			out[i] = d
			continue
		}
		byID[d.ID()] = len(out)
		out = append(out, d)
	}
	return out
}

// Payload carries per-type detail on a Descriptor.
type Payload interface {
	payload()
}

// AntPayload is attached to ant descriptors.
type AntPayload struct {
	Project  string // project name attribute, may be empty
	FileName string // base name of the build file
}

// GradlePayload is attached to gradle descriptors.
type GradlePayload struct {
	Line int // 1-based line the task statement was found on
}

// MakePayload is attached to make descriptors.
type MakePayload struct {
	Line int
}

// ScriptPayload is attached to script descriptors.
type ScriptPayload struct {
	Interpreter string
}

// NpmPayload is attached to npm descriptors.
type NpmPayload struct {
	Script string // the script body from package.json
}

func (AntPayload) payload()    {}
func (GradlePayload) payload() {}
func (MakePayload) payload()   {}
func (ScriptPayload) payload() {}
func (NpmPayload) payload()    {}
