package api

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/mikkohei13/biotools/params"
	"github.com/mikkohei13/biotools/store"
)

// publishArtifact uploads one flat artifact file to S3 under
// results/<dataset>/<name>. The AWS library configures region and
// credentials from the environment.
func (d *Dataset) publishArtifact(flat *store.Flat, name string) error {
	body, err := os.ReadFile(filepath.Join(flat.Path(), name))
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%s/%s/%s", params.ResultsDirName, d.ID, name)
	return d.storeObjectS3(key, body, "application/gzip")
}

func (d *Dataset) storeObjectS3(key string, body []byte, contentType string) (err error) {

	// All clients require a Session. The Session provides the client with
	// shared configuration such as region, endpoint, and credentials. A
	// Session should be shared where possible to take advantage of
	// configuration and credential caching. See the session package for
	// more information.
	sess := session.Must(session.NewSession())

	// Create a new instance of the service's client with a Session.
	svc := s3.New(sess)

	// Abort the upload if it takes more than the timeout.
	ctx := context.Background()
	var cancelFn func()
	timeout := time.Second * 10
	if timeout > 0 {
		ctx, cancelFn = context.WithTimeout(ctx, timeout)
	}
	defer cancelFn()

	_, err = svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(params.AWS_BUCKETNAME),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == request.CanceledErrorCode {
			// If the SDK can determine the request or retry delay was canceled
			// by a context the CanceledErrorCode error code will be returned.
			d.logger.Error("AWS S3 upload canceled due to timeout", "error", err)
		} else {
			d.logger.Error("Failed to upload object", "error", err)
		}
		return err
	}

	d.logger.Info("Uploaded artifact to AWS S3", "bucket", params.AWS_BUCKETNAME, "key", key)
	return nil
}
