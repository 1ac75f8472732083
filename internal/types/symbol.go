package types

import "fmt"

// SymbolKind is the sum-type discriminator over the four symbol shapes the
// static analyzer can emit. Fields that only make sense for one kind
// (container, for instance) stay nullable rather than spawning variant
// structs — the IR only has four kinds and they share almost every field.
type SymbolKind int

const (
	SymbolKindUnknown SymbolKind = iota
	SymbolKindClass
	SymbolKindInterface
	SymbolKindMethod
	SymbolKindConstructor
)

var symbolKindStrings = map[SymbolKind]string{
	SymbolKindClass:       "class",
	SymbolKindInterface:   "interface",
	SymbolKindMethod:      "method",
	SymbolKindConstructor: "constructor",
}

var stringToSymbolKind = func() map[string]SymbolKind {
	m := make(map[string]SymbolKind, len(symbolKindStrings))
	for k, v := range symbolKindStrings {
		m[v] = k
	}
	return m
}()

func (k SymbolKind) String() string {
	if s, ok := symbolKindStrings[k]; ok {
		return s
	}
	return "unknown"
}

// IsType reports whether this kind can be the declaring container of
// another symbol. Only class and interface symbols declare containers.
func (k SymbolKind) IsType() bool {
	return k == SymbolKindClass || k == SymbolKindInterface
}

func ParseSymbolKind(s string) (SymbolKind, error) {
	if k, ok := stringToSymbolKind[s]; ok {
		return k, nil
	}
	return SymbolKindUnknown, fmt.Errorf("unrecognized symbol kind %q", s)
}

func (k SymbolKind) MarshalJSON() ([]byte, error) {
	s, ok := symbolKindStrings[k]
	if !ok {
		return nil, fmt.Errorf("cannot marshal unknown symbol kind %d", k)
	}
	return []byte(`"` + s + `"`), nil
}

func (k *SymbolKind) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("symbol kind must be a JSON string, got %s", data)
	}
	parsed, err := ParseSymbolKind(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Symbol is a class, interface, method, or constructor declared by the
// indexed codebase. Id is unique across the whole IrRoot; Container, when
// set, references another Symbol whose Kind.IsType() is true.
type Symbol struct {
	ID           SymbolID   `json:"id"`
	Kind         SymbolKind `json:"kind"`
	Name         string     `json:"name"`
	Language     string     `json:"language"`
	FileID       FileID     `json:"file_id"`
	LineStart    int        `json:"line_start"`
	LineEnd      int        `json:"line_end"`
	Visibility   string     `json:"visibility,omitempty"`
	Container    *SymbolID  `json:"container,omitempty"`
	Annotations  []string   `json:"annotations"`
	IsEntryPoint bool       `json:"is_entry_point"`
	IsFramework  bool       `json:"is_framework"`
	IsGenerated  bool       `json:"is_generated"`
}
