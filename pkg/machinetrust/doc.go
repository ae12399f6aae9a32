// Package machinetrust stores the per-account trust tokens that let a
// recognized device skip interactive guard prompts.
//
// Tokens are keyed by account identifier and owned by whichever Service
// instance the engine was built with, never by process-wide state, so
// concurrent sessions for different accounts stay independent. The server
// may rotate a token inside a poll result; Store overwrites the cached value
// in that case.
//
// # Basic Usage
//
//	repo, err := machinetrust.NewRepository("file", machinetrust.RepositoryConfig{
//		DataDir: dataDir,
//	})
//	trust := machinetrust.NewService(repo)
//
//	token, _ := trust.TokenForAccount(ctx, steamID)
//	if token != "" {
//		// present it on session start to skip guard
//	}
//
// Repository implementations: in-memory, JSON file, Redis, PostgreSQL.
package machinetrust
