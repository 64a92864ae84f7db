package naming

import (
	"fmt"
	"log"

	"github.com/bundlekit/bundlekit/ui"
)

const (
	PrefixFilename = "bundlekit.prefix"
	RegionFilename = "bundlekit.region"

	Bundlekit = "bundlekit"
)

var printedPrefix bool

func Prefix() string {
	prefix, err := ui.PromptFile(
		PrefixFilename,
		"what prefix do you want to use for global names like S3 buckets? (Bundlekit recommends your company name, all lower case)",
	)
	if err != nil {
		log.Fatal(err)
	}
	if !printedPrefix {
		ui.Printf("using prefix %s", prefix)
		printedPrefix = true
	}
	return prefix
}

// RepositoryBucket names the S3 bucket that backs the remote bundle
// repository. Bucket names are global so the account number is included to
// keep them from colliding across accounts.
func RepositoryBucket(accountNumber string) string {
	return fmt.Sprintf("%s-%s-%s", Prefix(), Bundlekit, accountNumber)
}

// RepositoryTable names the DynamoDB table that indexes the remote bundle
// repository. Table names are regional so the prefix alone suffices.
func RepositoryTable() string {
	return fmt.Sprintf("%s-%s", Prefix(), Bundlekit)
}

// LogGroup names the CloudWatch log group deployment output lands in.
func LogGroup(name string) string {
	return fmt.Sprintf("/%s/%s", Bundlekit, name)
}
