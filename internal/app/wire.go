//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/uniedit/seeder/internal/infra/config"
)

// InitializeSeeder creates the seeder using Wire.
func InitializeSeeder(ctx context.Context, cfg *config.Config) (*Seeder, func(), error) {
	wire.Build(
		AppSet,
		wire.Struct(new(Seeder), "*"),
	)
	return nil, nil, nil
}
