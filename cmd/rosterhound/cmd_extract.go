package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rosterhound/internal/enrich"
	"rosterhound/internal/portal"
)

func extractCmd() *cobra.Command {
	var (
		employeeID string
		password   string
		airline    string
		month      int
		year       int
		firstLogin bool
		refresh    bool
		noEnrich   bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run one extraction and print the snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ROSTERHOUND_PASSWORD")
			}
			if employeeID == "" || password == "" {
				return errors.New("employee id and password are required")
			}

			svc := portal.NewService(cfg, logger)
			req := portal.Request{
				EmployeeID:  employeeID,
				Password:    password,
				Airline:     airline,
				TargetMonth: time.Month(month),
				TargetYear:  year,
				FirstLogin:  firstLogin,
				Refresh:     refresh,
			}

			snap, err := svc.ExtractSchedule(cmd.Context(), req)
			if err != nil {
				if errors.Is(err, portal.ErrInvalidCredentials) {
					return errors.New("the portal rejected the credentials")
				}
				if portal.Retriable(err) || errors.Is(err, portal.ErrMaxAttemptsExceeded) {
					logger.Warn("portal unavailable",
						zap.String("fallback_url", svc.ManualFallbackURL()))
				}
				return err
			}

			if !noEnrich && cfg.Portal.StatusURL != "" {
				enrich.New(cfg.Portal.StatusURL, logger).ActualTimes(cmd.Context(), snap)
			}

			out, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&employeeID, "employee", "u", "", "employee id")
	cmd.Flags().StringVarP(&password, "password", "p", "", "portal password (or ROSTERHOUND_PASSWORD)")
	cmd.Flags().StringVarP(&airline, "airline", "a", "", "airline code")
	cmd.Flags().IntVarP(&month, "month", "m", 0, "target month 1-12 (default: portal's current month)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "target year")
	cmd.Flags().BoolVar(&firstLogin, "first-login", false, "treat as the account's first portal login")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "incremental refresh: newest record wins on dedup")
	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "skip actual-times enrichment")

	return cmd
}
