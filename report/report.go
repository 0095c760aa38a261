package report

import (
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/rules_conda/digester"
)

// DefaultFormat reproduces the classic
// "SHA-256 Hash of 'Hello World': <hex>" line.
const DefaultFormat = "{algorithm} Hash of '{message}': {digest}"

// Result is one rendered digest.
type Result struct {
	// Name is the digested message text or input path.
	Name string `json:"name"`

	// Algorithm is the canonical algorithm name.
	Algorithm string `json:"algorithm"`

	// Display is the human-readable algorithm name.
	Display string `json:"-"`

	// Digest is the lowercase hex digest.
	Digest string `json:"digest"`

	// Size is the number of input bytes digested.
	Size int64 `json:"size"`
}

// NewResult builds a Result for a computed digest.
func NewResult(name string, dg digester.Digest, size int64) Result {
	display := dg.Algorithm()
	if al, err := digester.Lookup(dg.Algorithm()); err == nil {
		display = al.Display
	}

	return Result{
		Name:      name,
		Algorithm: dg.Algorithm(),
		Display:   display,
		Digest:    dg.Hex(),
		Size:      size,
	}
}

// Formatter renders results as text lines.
type Formatter struct {
	// Format is the line template; empty means DefaultFormat.
	Format string

	// Stamps are extra variables, usually from LoadStamps.
	Stamps map[string]interface{}
}

// Line substitutes {algorithm}, {algorithm_id}, {message},
// {digest} and {size} plus any stamp variables into the format.
// Result fields win over stamps; unknown placeholders are kept.
func (fm Formatter) Line(res Result) string {
	format := fm.Format
	if format == "" {
		format = DefaultFormat
	}

	vars := make(map[string]interface{}, len(fm.Stamps)+5)
	for key, val := range fm.Stamps {
		vars[key] = val
	}

	vars["algorithm"] = res.Display
	vars["algorithm_id"] = res.Algorithm
	vars["message"] = res.Name
	vars["digest"] = res.Digest
	vars["size"] = strconv.FormatInt(res.Size, 10)

	return fasttemplate.ExecuteStringStd(format, "{", "}", vars)
}

// WriteLines writes one newline-terminated line per result.
func WriteLines(
	w io.Writer,
	fm Formatter,
	results []Result,
) error {
	const errCtx = "writing report"

	for _, res := range results {
		if _, err := io.WriteString(w, fm.Line(res)+"\n"); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	return nil
}

// WriteJSON writes results as an indented JSON array.
func WriteJSON(w io.Writer, results []Result) error {
	const errCtx = "writing json report"

	if results == nil {
		results = []Result{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
