// Package docx fills Word templates. A .docx file is a zip archive; the body,
// headers and footers are executed as Go templates over the JSON view of the
// data, every other part is copied unchanged.
package docx

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"
)

var ErrTemplateNotFound = errors.New("template not found")

// TemplateError reports a bad template: a syntax error or a placeholder
// without a value.
type TemplateError struct {
	Template string
	Part     string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s (%s): %v", e.Template, e.Part, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

type Renderer interface {
	Render(templateName string, data any) ([]byte, error)
	List() ([]string, error)
	EnsureDir() error
}

type renderer struct {
	dir string
}

func NewRenderer(dir string) Renderer {
	return &renderer{dir: dir}
}

var (
	templatePartRe = regexp.MustCompile(`^word/(document|header\d*|footer\d*|footnotes|endnotes)\.xml$`)
	splitOpenRe    = regexp.MustCompile(`\{(?:<[^>]+>)+\{`)
	splitCloseRe   = regexp.MustCompile(`\}(?:<[^>]+>)+\}`)
	actionRe       = regexp.MustCompile(`(?s)\{\{.*?\}\}`)
	xmlTagRe       = regexp.MustCompile(`<[^>]+>`)

	actionText = strings.NewReplacer(
		"“", `"`, "”", `"`, "„", `"`,
		"&quot;", `"`, "&apos;", "'", "&lt;", "<", "&gt;", ">", "&amp;", "&",
	)
)

const lineBreak = `</w:t><w:br/><w:t xml:space="preserve">`

func (r *renderer) EnsureDir() error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create templates directory: %w", err)
	}
	return nil
}

// List returns the .docx files in the templates directory, sorted.
func (r *renderer) List() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".docx") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Render executes templateName with data and returns the new document.
func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	path, err := r.resolve(templateName)
	if err != nil {
		return nil, err
	}

	values, err := toValues(data)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare template data: %w", err)
	}

	src, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template %s: %w", templateName, err)
	}
	defer src.Close()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, f := range src.File {
		content, err := readPart(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}

		if templatePartRe.MatchString(f.Name) {
			content, err = execute(templateName, f.Name, content, values)
			if err != nil {
				return nil, err
			}
		}

		fw, err := w.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified})
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		if _, err := fw.Write(content); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize document: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *renderer) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || !strings.EqualFold(filepath.Ext(name), ".docx") {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	path := filepath.Join(r.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return path, nil
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func execute(templateName, part string, content []byte, values any) ([]byte, error) {
	tmpl, err := template.New(part).
		Option("missingkey=error").
		Funcs(template.FuncMap{"join": join}).
		Parse(mergeActions(string(content)))
	if err != nil {
		return nil, &TemplateError{Template: templateName, Part: part, Err: err}
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, values); err != nil {
		return nil, &TemplateError{Template: templateName, Part: part, Err: err}
	}
	return out.Bytes(), nil
}

// mergeActions removes the run markup Word inserts inside {{ }} actions and
// restores plain quotes.
func mergeActions(s string) string {
	s = splitOpenRe.ReplaceAllString(s, "{{")
	s = splitCloseRe.ReplaceAllString(s, "}}")
	return actionRe.ReplaceAllStringFunc(s, func(action string) string {
		return actionText.Replace(xmlTagRe.ReplaceAllString(action, ""))
	})
}

// toValues converts data to plain maps and slices with every string already
// escaped for WordprocessingML. Numbers decode to int64 or float64.
func toValues(data any) (any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return escapeValues(v), nil
}

func escapeValues(v any) any {
	switch x := v.(type) {
	case string:
		return escapeText(x)
	case []any:
		for i := range x {
			x[i] = escapeValues(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = escapeValues(x[k])
		}
		return x
	case json.Number:
		// numbers stay numeric so templates can compare them
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		return v
	}
}

func escapeText(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		var b strings.Builder
		_ = xml.EscapeText(&b, []byte(line))
		lines[i] = b.String()
	}
	return strings.Join(lines, lineBreak)
}

func join(items []any, sep string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprint(item))
	}
	return strings.Join(parts, sep)
}
