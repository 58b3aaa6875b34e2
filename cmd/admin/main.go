package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"complaintdesk/backend/internal/api/handler"
	"complaintdesk/backend/internal/app"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/logger"
	"complaintdesk/backend/internal/models"
)

const usage = `Usage: admin <command> [args]

Commands:
  show <id>                    print a complaint as a restorable snapshot
  remind <id>                  re-send the overdue reminder to the group
  delete <id> [id...]          delete complaints and their images
  restore <snapshot.json>      recreate a deleted complaint
  token <name> [hours]         issue a staff API token`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	log := logger.New("complaintdesk-admin")
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	command, args := os.Args[1], os.Args[2:]

	if command == "token" {
		if err := issueToken(cfg, args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialise dependencies")
	}
	defer a.Close()

	if err := run(ctx, a, command, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		a.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, command string, args []string) error {
	switch command {
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("usage: admin show <id>")
		}
		c, err := a.Complaints.Get(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(models.SnapshotOf(c))

	case "remind":
		if len(args) != 1 {
			return fmt.Errorf("usage: admin remind <id>")
		}
		c, err := a.Complaints.Remind(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Reminder sent for complaint %s.\n", c.ID)
		return nil

	case "delete":
		if len(args) == 0 {
			return fmt.Errorf("usage: admin delete <id> [id...]")
		}
		n, err := a.Complaints.DeleteMany(ctx, args)
		fmt.Printf("%d of %d complaints deleted.\n", n, len(args))
		return err

	case "restore":
		if len(args) != 1 {
			return fmt.Errorf("usage: admin restore <snapshot.json>")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var snap models.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return fmt.Errorf("invalid snapshot %s: %w", args[0], err)
		}
		c, err := a.Complaints.Restore(ctx, snap)
		if err != nil {
			return err
		}
		fmt.Printf("Complaint %s has been restored.\n", c.ID)
		return nil

	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
}

func issueToken(cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: admin token <name> [hours]")
	}
	ttl := config.StaffTokenLifetime
	if len(args) == 2 {
		hours, err := strconv.Atoi(args[1])
		if err != nil || hours < 1 {
			return fmt.Errorf("invalid duration %q, please provide a positive number of hours", args[1])
		}
		ttl = time.Duration(hours) * time.Hour
	}
	token, err := handler.NewAuth(cfg.JWTSecret, cfg.JWTIssuer).GenerateToken(args[0], ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
