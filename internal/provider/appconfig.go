package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/appconfig"

	"github.com/confwatch/confwatch/internal/store"
)

// AppConfigAPI is the slice of the AWS AppConfig client used by the
// provider, kept narrow so tests can substitute a fake.
type AppConfigAPI interface {
	GetConfiguration(ctx context.Context, params *appconfig.GetConfigurationInput, optFns ...func(*appconfig.Options)) (*appconfig.GetConfigurationOutput, error)
}

// AppConfig polls an AWS AppConfig configuration profile. The service issues
// a version token with every deployment; sending our cached token with each
// request lets AWS answer "no change" cheaply, without shipping the content
// again.
type AppConfig struct {
	application   string
	environment   string
	configuration string
	clientID      string

	version int64
	client  AppConfigAPI
	store   *store.Store
}

// NewAppConfig opens the snapshot store at statePath (empty means in-memory)
// and returns a provider addressing the given application, environment and
// configuration profile.
func NewAppConfig(client AppConfigAPI, application, environment, configuration, clientID, statePath string) (*AppConfig, error) {
	st, err := store.Open(statePath)
	if err != nil {
		return nil, err
	}

	snap, err := st.Load()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrInit, err)
	}

	return &AppConfig{
		application:   application,
		environment:   environment,
		configuration: configuration,
		clientID:      clientID,
		version:       snap.Version,
		client:        client,
		store:         st,
	}, nil
}

// Poll asks AppConfig for anything newer than our cached version token.
func (p *AppConfig) Poll(ctx context.Context) (string, bool, error) {
	out, err := p.client.GetConfiguration(ctx, &appconfig.GetConfigurationInput{
		Application:                aws.String(p.application),
		Environment:                aws.String(p.environment),
		Configuration:              aws.String(p.configuration),
		ClientId:                   aws.String(p.clientID),
		ClientConfigurationVersion: aws.String(strconv.FormatInt(p.version, 10)),
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: appconfig %s/%s/%s: %v",
			ErrUnavailable, p.application, p.environment, p.configuration, err)
	}

	if out.ConfigurationVersion == nil {
		return "", false, fmt.Errorf("%w: appconfig returned no version token", ErrUnavailable)
	}

	version, err := strconv.ParseInt(*out.ConfigurationVersion, 10, 64)
	if err != nil {
		return "", false, fmt.Errorf("%w: unparseable version token %q: %v",
			ErrUnavailable, *out.ConfigurationVersion, err)
	}

	// AppConfig omits the content when the version we sent is still current.
	if version == p.version {
		return "", false, nil
	}

	payload := string(out.Content)

	// Best-effort: a cache write failure degrades future change detection
	// but the payload was legitimately obtained, so hooks still run.
	if err := p.store.Save(store.Snapshot{Version: version, Data: payload}); err != nil {
		slog.Warn("failed to save snapshot", "provider", "aws", "err", err)
	}
	p.version = version

	return payload, true, nil
}

// Query returns the cached payload without contacting AWS.
func (p *AppConfig) Query(ctx context.Context) (string, error) {
	snap, err := p.store.Load()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return snap.Data, nil
}

// Close releases the snapshot store.
func (p *AppConfig) Close() error {
	return p.store.Close()
}
