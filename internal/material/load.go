package material

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource []byte

// Error codes for catalog loading.
const (
	ErrCodeNotFound   = "E005" // Catalog path not found
	ErrCodeNoFiles    = "E003" // No CUE files found
	ErrCodeSyntax     = "E004" // CUE parse failed
	ErrCodeConstraint = "E006" // Schema constraint violated
	ErrCodeDecode     = "E007" // Material could not be decoded
)

// LoadError represents an error that occurred while loading a catalog.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// entry mirrors #Material for decoding.
type entry struct {
	CriticalElectron float64 `json:"critical_electron"`
	CriticalPositron float64 `json:"critical_positron"`
	LossPerX0        float64 `json:"loss_per_x0"`
	RadiationLength  float64 `json:"radiation_length"`
	Color            string  `json:"color"`
}

// Load reads every .cue file under dir, unifies them with the material
// schema and returns the declared materials. A catalog looks like:
//
//	material: "Lead glass": {
//		critical_electron: 15.0
//		critical_positron: 14.6
//		loss_per_x0:       5.1
//		radiation_length:  2.54
//	}
//
// All errors are collected; the catalog is nil when any error occurred.
func Load(dir string) (*Catalog, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := value.Err(); err != nil {
		return nil, []error{fmt.Errorf("material schema: %w", err)}
	}

	var errs []error
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err)})
			continue
		}
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			errs = append(errs, convertCUEError(err, ErrCodeSyntax)...)
			continue
		}
		value = value.Unify(v)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, convertCUEError(err, ErrCodeConstraint)
	}

	cat := &Catalog{}
	iter, err := value.LookupPath(cue.ParsePath("material")).Fields()
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("iterating materials: %v", err)}}
	}
	for iter.Next() {
		var e entry
		if err := iter.Value().Decode(&e); err != nil {
			errs = append(errs, &LoadError{
				Code:    ErrCodeDecode,
				Message: fmt.Sprintf("material %s: %v", iter.Selector(), err),
				Pos:     iter.Value().Pos(),
			})
			continue
		}
		cat.Add(Material{
			Name:             iter.Selector().Unquoted(),
			CriticalElectron: e.CriticalElectron,
			CriticalPositron: e.CriticalPositron,
			LossPerX0:        e.LossPerX0,
			RadiationLength:  e.RadiationLength,
			Color:            e.Color,
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	if cat.Len() == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no materials declared in %s", dir)}}
	}
	return cat, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths in
// lexical order.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// convertCUEError splits a CUE error into LoadErrors with positions.
func convertCUEError(err error, code string) []error {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return []error{&LoadError{Code: code, Message: err.Error()}}
	}

	out := make([]error, 0, len(list))
	for _, e := range list {
		le := &LoadError{Code: code, Message: e.Error()}
		if positions := cueerrors.Positions(e); len(positions) > 0 {
			le.Pos = positions[0]
		}
		out = append(out, le)
	}
	return out
}
