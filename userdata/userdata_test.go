package userdata

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	script, err := Render(Config{})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{
		"nvm install --lts",
		"npm install -g serverless",
		"dnf install -y docker",
		"systemctl enable --now amazon-ssm-agent",
	} {
		if !strings.Contains(script, s) {
			t.Fatalf("missing %q in %s", s, script)
		}
	}
	if strings.Contains(script, "docker run") || strings.Contains(script, "/opt/bundle") {
		t.Fatal(script)
	}
}

func TestRenderDeterministic(t *testing.T) {
	config := Config{BundleURL: "https://example.com/bundle.tar.gz"}
	one, err := Render(config)
	if err != nil {
		t.Fatal(err)
	}
	two, err := Render(config)
	if err != nil {
		t.Fatal(err)
	}
	if one != two {
		t.Fatal("output changed between renders")
	}
	if !strings.Contains(one, `curl -fsSL "https://example.com/bundle.tar.gz"`) {
		t.Fatal(one)
	}
}

func TestRenderImage(t *testing.T) {
	if _, err := Render(Config{Image: "irisclassifier:latest"}); err == nil {
		t.Fatal("expected an error without a registry")
	}
	script, err := Render(Config{
		Image:    "irisclassifier:latest",
		Registry: "123456789012.dkr.ecr.us-west-2.amazonaws.com",
		Region:   "us-west-2",
		Port:     5000,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{
		"aws ecr get-login-password --region us-west-2",
		"-p 5000:5000",
		"123456789012.dkr.ecr.us-west-2.amazonaws.com/irisclassifier:latest",
	} {
		if !strings.Contains(script, s) {
			t.Fatalf("missing %q in %s", s, script)
		}
	}
}
