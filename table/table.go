// Package table loads ioctl definitions ported from a C header, described
// in YAML, and turns them into request codes for any layout.
package table

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-edgebit/ioctl/ioc"
	"golang.org/x/exp/slices"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"
	"sigs.k8s.io/yaml"
)

const (
	MacroIO   = "IO"
	MacroIOR  = "IOR"
	MacroIOW  = "IOW"
	MacroIOWR = "IOWR"
	MacroIOC  = "IOC"
)

var macros = []string{MacroIO, MacroIOR, MacroIOW, MacroIOWR, MacroIOC}

type ValidationError struct {
	Message string
}

func NewValidationError(msg string, a ...any) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf(msg, a...),
	}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Table is a loaded, validated definition file.
type Table struct {
	sourcePath string
	hash       hash.Hash
	raw        []byte
	parsed     *Definitions
}

func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	table, err := ParseTable(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	table.sourcePath = path

	return table, nil
}

func ParseTable(raw []byte) (*Table, error) {
	parsed := &Definitions{}

	err := yaml.UnmarshalStrict(raw, parsed)
	if err != nil {
		return nil, err
	}

	err = parsed.Validate()
	if err != nil {
		return nil, err
	}

	hash := sha256.New()
	_, err = hash.Write(raw)
	if err != nil {
		return nil, err
	}

	return &Table{
		hash:   hash,
		raw:    raw,
		parsed: parsed,
	}, nil
}

func (table *Table) SourcePath() string {
	return table.sourcePath
}

func (table *Table) Raw() []byte {
	return table.raw
}

func (table *Table) SHA256() []byte {
	return table.hash.Sum(nil)
}

func (table *Table) Parsed() *Definitions {
	return table.parsed
}

// Definitions is the document stored in a table file.
type Definitions struct {
	Version string `json:"version"`
	Name    string `json:"name"`
	Package string `json:"package,omitempty"`
	// Group is the default group of every entry: one character such as
	// "U", or a number such as "0xAE".
	Group  string  `json:"group,omitempty"`
	Ioctls []Entry `json:"ioctls"`
}

func (defs *Definitions) Validate() error {
	if defs.Version != "v1" {
		return NewValidationError("unsupported table version (only v1 is supported)")
	}

	if defs.Name == "" {
		return NewValidationError("name is required")
	}

	if defs.Package != "" {
		if errs := validation.IsCIdentifier(defs.Package); len(errs) > 0 {
			return NewValidationError("invalid package %q: %s", defs.Package, strings.Join(errs, "; "))
		}
	}

	if defs.Group != "" {
		if _, err := ParseGroup(defs.Group); err != nil {
			return err
		}
	}

	if len(defs.Ioctls) == 0 {
		return NewValidationError("at least one ioctl is required")
	}

	seen := map[string]bool{}
	for i := range defs.Ioctls {
		entry := &defs.Ioctls[i]

		if seen[entry.Name] {
			return NewValidationError("duplicate ioctl: %s", entry.Name)
		}
		seen[entry.Name] = true

		if err := entry.Validate(defs.Group); err != nil {
			return err
		}
	}

	return nil
}

// Entry is one #define from the header.
type Entry struct {
	Name  string `json:"name"`
	Macro string `json:"macro,omitempty"`
	// Dir is only used with the IOC macro.
	Dir   string `json:"dir,omitempty"`
	Group string `json:"group,omitempty"`
	Nr    *int   `json:"nr,omitempty"`
	// Size is a byte count; suffixes such as "4Ki" are accepted.
	Size *resource.Quantity `json:"size,omitempty"`
	// Type names the Go type the argument points to. Generated code binds
	// such entries as ioctl.Ptr values instead of constants, so the type
	// must be declared in the generated package.
	Type string `json:"type,omitempty"`
	// Raw is a request code from before the _IOC macros.
	Raw *uint32 `json:"raw,omitempty"`
}

func (entry *Entry) Validate(defaultGroup string) error {
	if errs := validation.IsCIdentifier(entry.Name); len(errs) > 0 {
		return NewValidationError("invalid ioctl name %q: %s", entry.Name, strings.Join(errs, "; "))
	}

	if entry.Type != "" {
		if errs := validation.IsCIdentifier(entry.Type); len(errs) > 0 {
			return NewValidationError("%s: invalid type %q: %s", entry.Name, entry.Type, strings.Join(errs, "; "))
		}
		if entry.Macro == MacroIO {
			return NewValidationError("%s: IO takes no argument type", entry.Name)
		}
	}

	if entry.Raw != nil {
		if entry.Macro != "" || entry.Nr != nil || entry.Size != nil || entry.Dir != "" || entry.Group != "" {
			return NewValidationError("%s: raw may not be combined with other fields", entry.Name)
		}
		return nil
	}

	if !slices.Contains(macros, entry.Macro) {
		return NewValidationError("%s: macro must be one of %s", entry.Name, strings.Join(macros, ", "))
	}

	group := entry.Group
	if group == "" {
		group = defaultGroup
	}
	if group == "" {
		return NewValidationError("%s: group is required", entry.Name)
	}
	if _, err := ParseGroup(group); err != nil {
		return NewValidationError("%s: %s", entry.Name, err)
	}

	if entry.Nr == nil {
		return NewValidationError("%s: nr is required", entry.Name)
	}
	if *entry.Nr < 0 || *entry.Nr > 0xff {
		return NewValidationError("%s: nr must be between 0 and 255, got %d", entry.Name, *entry.Nr)
	}

	if entry.Dir != "" && entry.Macro != MacroIOC {
		return NewValidationError("%s: dir is only allowed with IOC", entry.Name)
	}

	switch entry.Macro {
	case MacroIO:
		if entry.Size != nil {
			return NewValidationError("%s: IO takes no size", entry.Name)
		}
	case MacroIOC:
		if _, err := ioc.ParseDirection(entry.Dir); err != nil {
			return NewValidationError("%s: %s", entry.Name, err)
		}
		fallthrough
	default:
		if entry.Size == nil {
			return NewValidationError("%s: size is required", entry.Name)
		}
		if entry.Size.Sign() < 0 {
			return NewValidationError("%s: size may not be negative", entry.Name)
		}
		v, ok := entry.Size.AsInt64()
		if !ok {
			return NewValidationError("%s: size must be a whole number of bytes", entry.Name)
		}
		if v > math.MaxUint32 {
			return NewValidationError("%s: size %d does not fit in a request code", entry.Name, v)
		}
	}

	return nil
}

// Fields resolves the entry's macro into code fields. It must not be called
// on raw entries.
func (entry *Entry) Fields(defaultGroup string) (ioc.Fields, error) {
	group := entry.Group
	if group == "" {
		group = defaultGroup
	}

	g, err := ParseGroup(group)
	if err != nil {
		return ioc.Fields{}, err
	}

	f := ioc.Fields{Group: g, Number: uint8(*entry.Nr)}

	switch entry.Macro {
	case MacroIO:
		f.Dir = ioc.None
	case MacroIOR:
		f.Dir = ioc.Read
	case MacroIOW:
		f.Dir = ioc.Write
	case MacroIOWR:
		f.Dir = ioc.ReadWrite
	case MacroIOC:
		f.Dir, err = ioc.ParseDirection(entry.Dir)
		if err != nil {
			return ioc.Fields{}, err
		}
	default:
		return ioc.Fields{}, NewValidationError("%s: unknown macro %q", entry.Name, entry.Macro)
	}

	if entry.Size != nil {
		v, ok := entry.Size.AsInt64()
		if !ok || v < 0 || uint64(v) > uint64(^uintptr(0)) {
			return ioc.Fields{}, NewValidationError("%s: size %s is out of range", entry.Name, entry.Size)
		}
		f.Size = uintptr(v)
	}

	return f, nil
}

// ParseGroup accepts a single character ("U") or an integer ("0xAE", "174").
func ParseGroup(s string) (uint8, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, NewValidationError("invalid group %q: must be one character or a number from 0 to 255", s)
	}

	return uint8(v), nil
}
