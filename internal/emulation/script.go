package emulation

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/dop251/goja"
)

//go:embed templates/*.js.tmpl
var templateFS embed.FS

var scripts = template.Must(
	template.New("scripts").
		Funcs(template.FuncMap{"json": toJSON}).
		ParseFS(templateFS, "templates/*.js.tmpl"),
)

type multicastConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
}

type scriptData struct {
	ClassID   string
	State     *State
	Multicast multicastConfig
	catalog   *Catalog
}

type jsMethod struct {
	Name      string
	Params    string
	Qualified string
	Body      string
	Mirror    bool
}

// Object returns the rendered methods of one catalog object.
func (d scriptData) Object(object string) []jsMethod {
	ops := d.catalog.ByObject(object)
	methods := make([]jsMethod, 0, len(ops))
	for _, op := range ops {
		methods = append(methods, jsMethod{
			Name:      op.Name,
			Params:    strings.Join(op.Params, ", "),
			Qualified: op.Qualified(),
			Body:      op.JSBody(),
			Mirror:    op.Mutates,
		})
	}
	return methods
}

func renderScript(name string, data scriptData) (string, error) {
	var buf bytes.Buffer
	if err := scripts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s script: %w", data.ClassID, err)
	}
	return buf.String(), nil
}

// toJSON encodes v for embedding in a script. encoding/json escapes <, > and &,
// so the output cannot close a surrounding script element.
func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompileCheck parses script without running it.
func CompileCheck(script string) error {
	if _, err := goja.Compile("emulation.js", script, true); err != nil {
		return fmt.Errorf("compiling emulation script: %w", err)
	}
	return nil
}

// CheckFamilies renders and compiles the default script of every family.
func CheckFamilies() error {
	for _, f := range Families() {
		config := map[string]string{}
		script, err := f.BuildScript(f.DefaultState(config), config)
		if err != nil {
			return err
		}
		if err := CompileCheck(script); err != nil {
			return fmt.Errorf("%s: %w", f.ClassID(), err)
		}
	}
	return nil
}
