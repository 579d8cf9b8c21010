// Command setupadmin creates the initial administrator account, or
// resets its password if the account already exists.
package main

import (
	"bufio"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/voltpanel/voltpanel-be/internal/auth"
	"github.com/voltpanel/voltpanel-be/internal/database"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("setupadmin", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Admin email")
	username := fs.String("user", "admin", "Admin username (used only when creating)")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dbPath := fs.String("db", "./voltpanel.db", "Path to database file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		fmt.Fprintln(stdout, "Usage: setupadmin -email <email> [-user <username>] [-password <password>] [-db <db_path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if len(strings.TrimSpace(password)) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	if path := os.Getenv("DATABASE_PATH"); path != "" && *dbPath == "./voltpanel.db" {
		*dbPath = path
	}

	db, err := database.New(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	normalized := strings.ToLower(strings.TrimSpace(*email))

	var id string
	err = db.QueryRow("SELECT id FROM users WHERE email = ?", normalized).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		id = uuid.New().String()
		_, err = db.Exec(
			"INSERT INTO users (id, email, username, password_hash, energy, is_infinite_energy, is_admin, created_at) VALUES (?, ?, ?, ?, 100, 0, 1, ?)",
			id, normalized, strings.TrimSpace(*username), hash, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		fmt.Fprintf(stdout, "Admin %s created with ID %s\n", normalized, id)
	case err != nil:
		return fmt.Errorf("failed to look up user: %w", err)
	default:
		_, err = db.Exec("UPDATE users SET password_hash = ?, is_admin = 1 WHERE id = ?", hash, id)
		if err != nil {
			return fmt.Errorf("failed to update admin: %w", err)
		}
		fmt.Fprintf(stdout, "Password reset and admin flag set for %s\n", normalized)
	}

	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
