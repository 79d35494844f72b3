package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/scholaris/resultportal/internal/app/repositories"
	"github.com/scholaris/resultportal/internal/app/services"
	"github.com/scholaris/resultportal/internal/seed"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	repos   *repositories.Repositories
	auth    *services.AuthService
	hasher  seed.Hasher
	migrate func(ctx context.Context) (int, error)
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  create-admin -email EMAIL [-name NAME] - create an administrator; the password is prompted")
	fmt.Fprintln(cli.out, "  reset-pin -student STUDENT_ID -email EMAIL - issue a new PIN to a student")
	fmt.Fprintln(cli.out, "  migrate - apply pending database migrations")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createAdminCmd := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	createAdminCmd.SetOutput(cli.out)
	adminEmail := createAdminCmd.String("email", "", "The administrator's email. The password will be prompted next.")
	adminName := createAdminCmd.String("name", "", "The administrator's full name.")

	resetPINCmd := flag.NewFlagSet("reset-pin", flag.ContinueOnError)
	resetPINCmd.SetOutput(cli.out)
	studentID := resetPINCmd.String("student", "", "The student ID printed on the student's card.")
	studentEmail := resetPINCmd.String("email", "", "The email on the student's record.")

	switch args[1] {
	case "create-admin":
		if err := createAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if strings.TrimSpace(*adminEmail) == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			createAdminCmd.Usage()
			return errHelp
		}
		return cli.createAdmin(ctx, *adminEmail, *adminName, string(pwd))

	case "reset-pin":
		if err := resetPINCmd.Parse(args[2:]); err != nil {
			return err
		}
		if strings.TrimSpace(*studentID) == "" || strings.TrimSpace(*studentEmail) == "" {
			resetPINCmd.Usage()
			return errHelp
		}
		return cli.resetPIN(ctx, *studentID, *studentEmail)

	case "migrate":
		return cli.runMigrations(ctx)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) createAdmin(ctx context.Context, email, name, password string) error {
	created, err := seed.EnsureAdmin(ctx, cli.repos.AdminRepository, cli.hasher, email, name, password)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("an administrator with email %s already exists", strings.ToLower(strings.TrimSpace(email)))
	}
	fmt.Fprintf(cli.out, "Administrator %s created\n", strings.ToLower(strings.TrimSpace(email)))
	return nil
}

func (cli *commandLine) resetPIN(ctx context.Context, studentID, email string) error {
	pin, err := cli.auth.ResetPIN(ctx, studentID, email)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "New PIN for %s: %s\n", strings.TrimSpace(studentID), pin)
	return nil
}

func (cli *commandLine) runMigrations(ctx context.Context) error {
	applied, err := cli.migrate(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d migration(s) applied\n", applied)
	return nil
}
