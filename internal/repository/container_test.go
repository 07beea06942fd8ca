//go:build !integration

package repository

import "context"

// startPostgres only launches a container under the integration build tag.
func startPostgres(context.Context) (string, func(), error) {
	return "", func() {}, nil
}
