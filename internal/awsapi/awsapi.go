// Package awsapi constructs the real AWS service clients. Everything else
// in this codebase depends on the narrow interfaces in internal/provider, so
// this is the only package that touches the SDK's credential machinery.
package awsapi

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/appconfig"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/confwatch/confwatch/internal/provider"
)

// Clients bundles the AWS service clients confwatch talks to.
type Clients struct {
	AppConfig *appconfig.Client
	SSM       *ssm.Client
}

// New resolves the default credential chain and region and constructs the
// service clients. No network traffic happens here; credentials are only
// exercised on the first call.
func New(ctx context.Context) (*Clients, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS configuration: %v", provider.ErrUnavailable, err)
	}
	return &Clients{
		AppConfig: appconfig.NewFromConfig(cfg),
		SSM:       ssm.NewFromConfig(cfg),
	}, nil
}
