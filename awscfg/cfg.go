package awscfg

import (
	"context"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/bundlekit/bundlekit/naming"
	"github.com/bundlekit/bundlekit/ui"
)

type Config struct {
	cfg aws.Config

	mu       sync.Mutex
	clients  map[string]interface{}
	identity *sts.GetCallerIdentityOutput
}

func NewConfig(ctx context.Context) (*Config, error) {
	c := &Config{clients: map[string]interface{}{}}
	var err error
	c.cfg, err = config.LoadDefaultConfig(
		ctx,
		config.WithRegion(DefaultRegion()),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func Must(cfg *Config, err error) *Config {
	if err != nil {
		ui.Fatal(err)
	}
	return cfg
}

func (c *Config) Region() string {
	return c.cfg.Region
}

// DefaultRegion resolves the region for every AWS client Bundlekit
// constructs: the standard environment variables win, then the answer cached
// in bundlekit.region, prompting for it on first use.
func DefaultRegion() string {
	for _, name := range []string{"AWS_REGION", "AWS_DEFAULT_REGION"} {
		if region := os.Getenv(name); region != "" {
			return region
		}
	}
	region, err := ui.PromptFile(
		naming.RegionFilename,
		"what region should Bundlekit use for the bundle repository and deployed hosts?",
	)
	if err != nil {
		ui.Fatal(err)
	}
	return region
}
