// Command console is a terminal client for the attendance backend. It
// restores a remembered session (or logs in with the given credentials),
// then prints the backend status, the dashboard and the employee list.
// When the backend is unreachable the reads come from the built-in
// simulation data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"smart-attendance/internal/adapters/logger"
	"smart-attendance/internal/apiclient"
	"smart-attendance/internal/application"
	"smart-attendance/internal/domain"
	"smart-attendance/internal/i18n"
	"smart-attendance/internal/infrastructure/sessionstore"
)

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("base-url", apiclient.DefaultBaseURL, "backend API base URL")
	username := flag.String("username", "", "login username (skipped when a session is remembered)")
	password := flag.String("password", "", "login password")
	remember := flag.Bool("remember", false, "persist the session for 30 days")
	langFlag := flag.String("lang", "", "interface language (ar or en)")
	logout := flag.Bool("logout", false, "clear the remembered session and exit")
	flag.Parse()

	log := logger.New()
	ctx := context.Background()

	prefDir := filepath.Dir(sessionstore.DefaultSessionPath())
	lang := i18n.LoadPreference(prefDir)
	if *langFlag != "" {
		lang = i18n.Lang(*langFlag)
		if err := i18n.SavePreference(prefDir, lang); err != nil {
			log.Warn(ctx, "failed to persist language preference", "error", err)
		}
	}

	store := sessionstore.NewFromEnv(ctx, log)
	sessions := application.NewSessionManager(store, log,
		application.WithLoginDelay(500*time.Millisecond))

	if *logout {
		sessions.Logout(ctx)
		fmt.Println("session cleared")
		return
	}

	sessions.Restore(ctx)
	state := sessions.State()
	if !state.Authenticated {
		if *username == "" || *password == "" {
			fmt.Fprintln(os.Stderr, "no remembered session; pass -username and -password")
			os.Exit(1)
		}
		user, err := sessions.Login(ctx, domain.Credentials{
			Username:   *username,
			Password:   *password,
			Method:     "credentials",
			RememberMe: *remember,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, i18n.T(lang, i18n.MsgInvalidCredentials))
			os.Exit(1)
		}
		state = sessions.State()
		log.Info(ctx, "logged in", "user_id", user.ID)
	}
	user := state.User
	fmt.Printf("%s (%s)\n", user.Name, user.Role)

	client := apiclient.New(log,
		apiclient.WithBaseURL(*baseURL),
		apiclient.WithLanguage(lang))
	client.CheckConnection(ctx)

	status := client.BackendStatus()
	fmt.Printf("[%s] %s\n\n", status.Mode, status.Message)

	if resp := client.DashboardStats(ctx); resp.Success {
		stats := resp.Data
		fmt.Printf("present today: %d / %d (%.1f%%)\n",
			stats.PresentToday, stats.TotalEmployees, stats.AttendanceRate)
		fmt.Printf("visitors today: %d, open security alerts: %d\n\n",
			stats.VisitorsToday, stats.SecurityAlerts)
	} else {
		fmt.Fprintln(os.Stderr, resp.Error)
	}

	if resp := client.Employees(ctx); resp.Success {
		for _, e := range resp.Data {
			fmt.Printf("  %-8s %-24s %s\n", e.EmployeeID, e.Name, e.Department)
		}
	} else {
		fmt.Fprintln(os.Stderr, resp.Error)
	}
}
