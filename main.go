package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/spf13/cobra"

	"runcoach/internal/auth"
	"runcoach/internal/config"
	"runcoach/internal/store"
	"runcoach/internal/strava"
)

func main() {
	root := &cobra.Command{
		Use:   "runcoach",
		Short: "Running telemetry analysis and adaptive training targets",
		Long: "runcoach syncs runs from Strava or .fit files, derives efficiency,\n" +
			"cardiac drift and pacing metrics from raw telemetry, and calibrates\n" +
			"personal targets from your own history.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}

	root.AddCommand(
		newTUICmd(),
		newSyncCmd(),
		newImportCmd(),
		newProcessCmd(),
		newTargetsCmd(),
		newWeekCmd(),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// errConfigCreated signals that a fresh example config was written and the
// user needs to fill it in before anything can run.
var errConfigCreated = errors.New("config created")

// loadConfig loads ~/.runcoach/config.json, writing an example on first run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		if err := config.CreateExample(); err != nil {
			return nil, fmt.Errorf("creating example config: %w", err)
		}
		dir, _ := config.GetConfigDir()
		fmt.Printf("No config found. An example was written to:\n  %s/config.json\n\n", dir)
		fmt.Println("Fill in your athlete profile (and Strava API credentials for sync).")
		return nil, errConfigCreated
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func openDB() (*store.DB, error) {
	path, err := store.DefaultPath()
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}

// loadProfile returns the stored athlete profile, seeding it from the
// config on first use. The database copy is authoritative afterwards.
func loadProfile(db *store.DB, cfg *config.Config) (store.Profile, error) {
	profile, err := db.GetProfile()
	if err == nil {
		return *profile, nil
	}
	if !errors.Is(err, store.ErrNoProfile) {
		return store.Profile{}, fmt.Errorf("loading profile: %w", err)
	}

	birth, err := time.Parse("2006-01-02", cfg.Athlete.BirthDate)
	if err != nil {
		return store.Profile{}, fmt.Errorf("parsing athlete.birth_date: %w", err)
	}
	seeded := store.Profile{
		RestingHR: cfg.Athlete.RestingHR,
		MaxHR:     cfg.Athlete.MaxHR,
		BirthDate: birth,
	}
	if err := db.SaveProfile(&seeded); err != nil {
		return store.Profile{}, fmt.Errorf("seeding profile: %w", err)
	}
	return seeded, nil
}

// stravaClient builds an authenticated API client, running the OAuth flow
// when no valid tokens are stored.
func stravaClient(ctx context.Context, db *store.DB, cfg *config.Config) (*strava.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if storedAuth, err = authenticate(ctx, db, oauthCfg); err != nil {
			return nil, fmt.Errorf("authentication: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	tokenSource := newPersistedTokenSource(db, oauthCfg, storedAuth)
	if _, err := tokenSource.Token(); err != nil {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		fresh, err := authenticate(ctx, db, oauthCfg)
		if err != nil {
			return nil, fmt.Errorf("re-authentication: %w", err)
		}
		tokenSource = newPersistedTokenSource(db, oauthCfg, fresh)
	}

	return strava.NewClient(tokenSource), nil
}

func newPersistedTokenSource(db *store.DB, oauthCfg *oauth2.Config, a *store.Auth) *auth.TokenSource {
	token := &oauth2.Token{
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		Expiry:       a.ExpiresAt,
	}
	athleteID := a.AthleteID
	return auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return db.SaveAuth(&store.Auth{
			AthleteID:    athleteID,
			AccessToken:  newToken.AccessToken,
			RefreshToken: newToken.RefreshToken,
			ExpiresAt:    newToken.Expiry,
		})
	})
}

func authenticate(ctx context.Context, db *store.DB, oauthCfg *oauth2.Config) (*store.Auth, error) {
	result, err := auth.Authenticate(ctx, oauthCfg)
	if err != nil {
		return nil, err
	}

	storedAuth := &store.Auth{
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}
	if err := db.SaveAuth(storedAuth); err != nil {
		return nil, fmt.Errorf("saving auth: %w", err)
	}

	fmt.Printf("\nAuthenticated as athlete %d.\n", result.AthleteID)
	return storedAuth, nil
}
