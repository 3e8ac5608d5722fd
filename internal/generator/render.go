package generator

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/example/extstub/internal/declaration"
)

// Banner marks every emitted file as machine-generated.
const Banner = "// Code generated by extstub. DO NOT EDIT."

const stubTemplate = `<?php

{{ .Banner }}
{{- if .Namespace }}

namespace {{ .Namespace }};
{{- end }}
{{- if .Uses }}
{{ range .Uses }}
use {{ . }};
{{- end }}
{{- end }}

/**
{{- range .Methods }}
 * @method {{ . }}
{{- end }}
 */
class {{ .Class }}
{
}
`

var stubTmpl = template.Must(template.New("stub").Parse(stubTemplate))

type stubData struct {
	Banner    string
	Namespace string
	Class     string
	Uses      []string
	Methods   []string
}

// Render produces the stub file contents for a merged class. Output depends
// only on the class contents, never on the order packages were merged in.
func Render(class *MergedClass) ([]byte, error) {
	uses := append([]string(nil), class.Uses...)
	sort.Strings(uses)

	methods := append([]declaration.Method(nil), class.Methods...)
	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Name < methods[j].Name
	})

	data := stubData{
		Banner:    Banner,
		Namespace: class.Namespace,
		Class:     class.Class,
		Uses:      uses,
		Methods:   make([]string, 0, len(methods)),
	}
	for _, m := range methods {
		data.Methods = append(data.Methods, MethodSignature(m))
	}

	var buf bytes.Buffer
	if err := stubTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", class.FQCN(), err)
	}
	return buf.Bytes(), nil
}

// MethodSignature renders the text that follows @method:
// `[returns ]name(args)[ doc]`.
func MethodSignature(m declaration.Method) string {
	var sb strings.Builder

	if m.Returns != "" {
		sb.WriteString(m.Returns)
		sb.WriteByte(' ')
	}
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, arg := range m.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(argumentSignature(arg))
	}
	sb.WriteByte(')')

	// an @method tag must fit on one line
	if doc := strings.Join(strings.Fields(m.Doc), " "); doc != "" {
		sb.WriteByte(' ')
		sb.WriteString(doc)
	}

	return sb.String()
}

func argumentSignature(arg declaration.Argument) string {
	name := arg.Name
	if !strings.HasPrefix(name, "$") && !strings.HasPrefix(name, "...$") {
		name = "$" + name
	}

	s := name
	if arg.Type != "" {
		s = arg.Type + " " + name
	}
	if arg.DefaultValue != "" {
		s += " = " + arg.DefaultValue
	}
	return s
}
