package bundle

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/bundlekit/bundlekit/fileutil"
)

const DefaultBaseImage = "python:3.11-slim"

var dockerfileTemplate = template.Must(template.New("Dockerfile").Parse(`FROM {{.Env.BaseImage}}

COPY requirements.txt /
RUN pip install -r /requirements.txt --no-cache-dir

COPY . /

ENV PORT {{.Env.Port}}
EXPOSE {{.Env.Port}}

CMD ["python", "app.py"]
`))

var entrypointTemplate = template.Must(template.New("app.py").Parse(`from fastapi import FastAPI
import uvicorn

app = FastAPI()


@app.get("/")
def index():
    return "{{.Name}} is up. Visit /docs for the API documentation."
{{range .APIs}}

{{if .Doc}}# {{.Doc}}
{{end}}def {{.Name}}(payload: dict):
    raise NotImplementedError("{{.Name}}")


app.add_api_route(
    path="{{.Route}}",
    endpoint={{.Name}},
    methods=[{{range $i, $m := .Methods}}{{if $i}}, {{end}}"{{$m}}"{{end}}],
)
{{end}}

if __name__ == "__main__":
    uvicorn.run(app=app, host="0.0.0.0", port={{.Env.Port}})
`))

const dockerignore = `.git
__pycache__
*.pyc
*.tar.gz
`

const requirements = `fastapi
uvicorn
`

// Scaffold creates a fresh bundle directory from the manifest: the manifest
// itself, a Dockerfile, a service entrypoint with a route per declared API,
// and supporting files. It refuses to touch a directory that already has
// any of them.
func Scaffold(m *Manifest, dirname string) error {
	if m.Version == "" {
		m.Version = GenerateVersion()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.Env.BaseImage == "" {
		m.Env.BaseImage = DefaultBaseImage
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dirname, 0777); err != nil {
		return err
	}

	for _, file := range []struct {
		filename string
		tmpl     *template.Template
		literal  string
	}{
		{filename: "Dockerfile", tmpl: dockerfileTemplate},
		{filename: "app.py", tmpl: entrypointTemplate},
		{filename: ".dockerignore", literal: dockerignore},
		{filename: "requirements.txt", literal: requirements},
	} {
		pathname := filepath.Join(dirname, file.filename)
		if fileutil.Exists(pathname) {
			return fmt.Errorf("%s already exists", pathname)
		}
		b := []byte(file.literal)
		if file.tmpl != nil {
			buf := &bytes.Buffer{}
			if err := file.tmpl.Execute(buf, m); err != nil {
				return err
			}
			b = buf.Bytes()
		}
		if err := os.WriteFile(pathname, b, 0666); err != nil {
			return err
		}
	}

	if pathname := filepath.Join(dirname, ManifestFilename); fileutil.Exists(pathname) {
		return fmt.Errorf("%s already exists", pathname)
	}
	return m.Write(dirname)
}
