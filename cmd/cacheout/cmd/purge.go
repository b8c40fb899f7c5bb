/*
 *     Copyright 2020 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"d7y.io/cacheout/purger/types"
)

func newPurgeCommand() *cobra.Command {
	purgeCmd := &cobra.Command{
		Use:               "purge",
		Short:             "submit purges and query their status",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	var (
		partnerID string
		req       types.CreatePurgeRequest
	)
	submitCmd := &cobra.Command{
		Use:               "submit <url>...",
		Short:             "purge urls on every cdn enabled for the partner",
		Args:              cobra.MinimumNArgs(1),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			req.URLs = args
			userRequest, err := client.CreatePurge(context.Background(), partnerID, req)
			if userRequest != nil {
				if err := printJSON(userRequest); err != nil {
					return err
				}
			}

			return err
		},
	}

	flags := submitCmd.Flags()
	flags.StringVar(&partnerID, "partner-id", "", "partner submitting the purge")
	flags.StringVar(&req.Hostname, "hostname", "", "hostname that relative urls are resolved against, overrides the partner hostname")
	flags.StringVar(&req.Description, "description", "", "description of the purge")
	flags.StringVar(&req.TicketID, "ticket-id", "", "ticket tracking the purge")
	_ = submitCmd.MarkFlagRequired("partner-id")

	statusCmd := &cobra.Command{
		Use:               "status <user-request-id>",
		Short:             "show the per cdn status of a purge",
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			userRequest, err := client.GetPurgeStatus(context.Background(), args[0])
			if err != nil {
				return err
			}

			return printJSON(userRequest)
		},
	}

	purgeCmd.AddCommand(submitCmd, statusCmd)
	return purgeCmd
}
