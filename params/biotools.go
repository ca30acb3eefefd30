package params

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
)

// DefaultDatadirRoot is where the score cache and result artifacts live
// unless configured otherwise.
var DefaultDatadirRoot = func() string {
	home, err := homedir.Dir()
	if err != nil {
		return ".biotools"
	}
	return filepath.Join(home, ".biotools")
}()

const ScoreDBName = "scores.db"

// ResultsDirName is the subdirectory for flat result artifacts,
// matching the original script layout: results/<dataset>/<dataset>_<method>_<res>km.json
const ResultsDirName = "results"

const DefaultGZipCompressionLevel = 9

var (
	INFLUXDB_URL    = os.Getenv("INFLUXDB_URL")
	INFLUXDB_TOKEN  = os.Getenv("INFLUXDB_TOKEN")
	INFLUXDB_ORG    = os.Getenv("INFLUXDB_ORG")
	INFLUXDB_BUCKET = os.Getenv("INFLUXDB_BUCKET")

	// AWS_BUCKETNAME enables S3 publication of result artifacts when set.
	// The AWS SDK configures region and credentials from the environment.
	AWS_BUCKETNAME = os.Getenv("AWS_BUCKETNAME")
)
