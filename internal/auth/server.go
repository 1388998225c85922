package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// authTimeout bounds how long we wait for the user to finish the
// browser flow.
const authTimeout = 5 * time.Minute

const successPage = `<!DOCTYPE html>
<html>
<head><title>Connected</title></head>
<body style="font-family: system-ui; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0;">
<div style="text-align: center;">
<h1 style="color: #10B981;">Connected!</h1>
<p>You can close this tab and head back to the terminal.</p>
</div>
</body>
</html>`

// Authenticate runs the interactive OAuth flow: prints the consent URL,
// catches the redirect on a local listener and exchanges the code.
func Authenticate(ctx context.Context, cfg *oauth2.Config) (*AuthResult, error) {
	state, err := randomState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	codes := make(chan string, 1)
	fails := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			fails <- fmt.Errorf("state mismatch in callback")
			http.Error(w, "State mismatch", http.StatusBadRequest)
		case q.Get("error") != "":
			fails <- fmt.Errorf("authorization denied: %s", q.Get("error"))
			http.Error(w, "Authorization denied", http.StatusBadRequest)
		case q.Get("code") == "":
			fails <- fmt.Errorf("callback carried no authorization code")
			http.Error(w, "Missing code", http.StatusBadRequest)
		default:
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, successPage)
			codes <- q.Get("code")
		}
	})

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", CallbackPort))
	if err != nil {
		return nil, fmt.Errorf("starting callback listener: %w", err)
	}
	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != http.ErrServerClosed {
			fails <- fmt.Errorf("callback server: %w", err)
		}
	}()
	defer stopServer(server)

	fmt.Println()
	fmt.Println("To connect your Strava account, open this URL in a browser:")
	fmt.Println()
	fmt.Printf("  %s\n", cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))
	fmt.Println()
	fmt.Println("Waiting for authorization...")

	var code string
	select {
	case code = <-codes:
	case err := <-fails:
		return nil, err
	case <-time.After(authTimeout):
		return nil, fmt.Errorf("no authorization after %v", authTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}

	return &AuthResult{Token: token, AthleteID: ExtractAthleteID(token)}, nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func stopServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}
