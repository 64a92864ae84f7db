// Package userdata generates the cloud-init script that turns a stock
// Amazon Linux instance into a bundle host: Node (via nvm) and serverless,
// Docker, and the SSM Agent, with an optional bundle fetched from S3 or
// run straight from a registry.
package userdata

import (
	"bytes"
	"fmt"
	"text/template"
)

type Config struct {

	// NodeVersion is passed to nvm; "--lts" tracks the current LTS line.
	NodeVersion string

	// BundleURL, if set, is a presigned S3 URL for a bundle archive to
	// unpack onto the host.
	BundleURL string

	// Registry and Image, if set, docker-login (with authentication from
	// the instance role via ECR) and run the image on boot.
	Registry, Image string
	Port            int
	Region          string
}

var tmpl = template.Must(template.New("userdata").Parse(`#!/bin/bash
set -euxo pipefail

# Node via nvm, plus the serverless CLI, for the ec2-user account.
sudo -iu ec2-user bash <<'NODE'
set -euxo pipefail
curl -o- https://raw.githubusercontent.com/nvm-sh/nvm/v0.39.7/install.sh | bash
. ~/.nvm/nvm.sh
nvm install {{.NodeVersion}}
npm install -g serverless
NODE

# Docker.
dnf install -y docker
systemctl enable --now docker
usermod -aG docker ec2-user

# SSM Agent ships with Amazon Linux but isn't guaranteed to be running.
systemctl enable --now amazon-ssm-agent
{{if .BundleURL}}
# Fetch the bundle archive.
mkdir -p /opt/bundle
curl -fsSL "{{.BundleURL}}" | tar -xz -C /opt/bundle
chown -R ec2-user:ec2-user /opt/bundle
{{end}}{{if .Image}}
# Pull and run the bundle image.
aws ecr get-login-password --region {{.Region}} | docker login --username AWS --password-stdin {{.Registry}}
docker run -d --restart unless-stopped -p {{.Port}}:{{.Port}} --name bundle {{.Registry}}/{{.Image}}
{{end}}`))

// Render produces the script deterministically from the config so tests
// can pin its content.
func Render(config Config) (string, error) {
	if config.NodeVersion == "" {
		config.NodeVersion = "--lts"
	}
	if config.Image != "" {
		if config.Registry == "" || config.Region == "" {
			return "", fmt.Errorf("running an image requires a registry and a region")
		}
		if config.Port == 0 {
			config.Port = 8080
		}
	}
	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, config); err != nil {
		return "", err
	}
	return buf.String(), nil
}
