// Command tokengen issues a back-office bearer token signed with the
// configured auth secret.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/uniedit/checkout/internal/app"
)

func main() {
	subject := flag.String("subject", "", "operator id")
	email := flag.String("email", "", "operator email")
	flag.Parse()

	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	token, expiresAt, err := app.ProvideTokenManager(cfg).IssueToken(*subject, *email)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format(time.RFC3339))
}
