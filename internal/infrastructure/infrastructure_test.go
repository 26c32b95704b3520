package infrastructure_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/warden/internal/config"
	"github.com/JaimeStill/warden/internal/infrastructure"
	"github.com/JaimeStill/warden/pkg/database"
	"github.com/JaimeStill/warden/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "warden",
			User:            "warden",
			Password:        "warden",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Version: "0.1.0",
	}
}

func TestNewWithoutStorage(t *testing.T) {
	infra, err := infrastructure.NewWithLogger(validConfig(), discard)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer infra.Database.Connection().Close()

	if infra.Lifecycle == nil || infra.Logger == nil || infra.Database == nil {
		t.Fatalf("missing system: %+v", infra)
	}
	if infra.Storage != nil {
		t.Error("storage should be nil without a connection string")
	}
}

func TestNewWithStorage(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = storage.Config{ContainerName: "warden", ConnectionString: azuriteConnString}

	infra, err := infrastructure.NewWithLogger(cfg, discard)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer infra.Database.Connection().Close()

	if infra.Storage == nil {
		t.Error("storage is nil")
	}
}

func TestNewInvalidStorage(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = storage.Config{ContainerName: "warden", ConnectionString: "not-a-connection-string"}

	if _, err := infrastructure.NewWithLogger(cfg, discard); err == nil {
		t.Error("expected error for invalid connection string")
	}
}
