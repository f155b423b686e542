package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/confwatch/confwatch/internal/store"
)

// ParameterAPI is the slice of the AWS SSM client used by the provider and
// by the template hook's key lookup.
type ParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStore polls a single AWS SSM parameter. Parameter Store has no
// version token to hand back, so change detection compares the parameter
// value itself against the cached payload.
type ParameterStore struct {
	key    string
	client ParameterAPI
	store  *store.Store
}

// NewParameterStore opens the snapshot store at statePath (empty means
// in-memory) and returns a provider watching the named parameter.
func NewParameterStore(client ParameterAPI, key, statePath string) (*ParameterStore, error) {
	st, err := store.Open(statePath)
	if err != nil {
		return nil, err
	}
	return &ParameterStore{key: key, client: client, store: st}, nil
}

// Poll fetches the parameter value and compares it to the cached payload.
func (p *ParameterStore) Poll(ctx context.Context) (string, bool, error) {
	value, err := FetchParameter(ctx, p.client, p.key)
	if err != nil {
		return "", false, err
	}

	snap, err := p.store.Load()
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	if value == snap.Data {
		return "", false, nil
	}

	if err := p.store.Save(store.Snapshot{Data: value}); err != nil {
		slog.Warn("failed to save snapshot", "provider", "param_store", "err", err)
	}

	return value, true, nil
}

// Query returns the cached payload without contacting AWS.
func (p *ParameterStore) Query(ctx context.Context) (string, error) {
	snap, err := p.store.Load()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return snap.Data, nil
}

// Close releases the snapshot store.
func (p *ParameterStore) Close() error {
	return p.store.Close()
}

// FetchParameter retrieves a single decrypted parameter value. It is shared
// with the template hook's key helper, which resolves parameters inline
// during rendering.
func FetchParameter(ctx context.Context, client ParameterAPI, key string) (string, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(key),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("%w: parameter %s: %v", ErrUnavailable, key, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("%w: parameter %s has no value", ErrUnavailable, key)
	}
	return *out.Parameter.Value, nil
}
