package auth

import (
	"golang.org/x/oauth2"
)

// CallbackPort is where the local redirect server listens during the
// interactive flow.
const CallbackPort = 8089

var stravaEndpoint = oauth2.Endpoint{
	AuthURL:  "https://www.strava.com/oauth/authorize",
	TokenURL: "https://www.strava.com/oauth/token",
}

// Config holds the application's OAuth client credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewOAuthConfig builds the oauth2 config for Strava. Strava wants its
// scopes comma-separated inside a single scope value.
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     stravaEndpoint,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"read,activity:read_all"},
	}
}

// AuthResult is the outcome of a completed interactive flow.
type AuthResult struct {
	Token     *oauth2.Token
	AthleteID int64
}

// ExtractAthleteID pulls the athlete id out of the token response.
// Strava piggybacks a summary athlete object on the token exchange;
// returns 0 when it is missing.
func ExtractAthleteID(token *oauth2.Token) int64 {
	athlete, ok := token.Extra("athlete").(map[string]interface{})
	if !ok {
		return 0
	}
	id, ok := athlete["id"].(float64)
	if !ok {
		return 0
	}
	return int64(id)
}
