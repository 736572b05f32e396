// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the configured weekly run slot",
	Long: `Schedule prints the weekday and hour configured under schedule.weekday
and schedule.hour, the next time that slot occurs, and a crontab line that
installs it. pubmed-digest does not install triggers itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := configuredSchedule()
		if err != nil {
			return err
		}
		fmt.Printf("Runs %s\n", s)
		fmt.Printf("Next run: %s\n", s.Next(time.Now()).Format("Mon 2006-01-02 15:04 MST"))
		fmt.Printf("crontab:  0 %d * * %d pubmed-digest run\n", s.Hour, int(s.Weekday))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
