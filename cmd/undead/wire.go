//go:build wireinject

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/config"
	"github.com/cory-johannsen/undead/internal/gameserver"
)

func InitializeGame(cfg config.Config, logger *zap.Logger) (*gameserver.Game, func(), error) {
	wire.Build(gameserver.ProviderSet)
	return nil, nil, nil
}
