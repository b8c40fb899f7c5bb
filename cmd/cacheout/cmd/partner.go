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

func newPartnerCommand() *cobra.Command {
	partnerCmd := &cobra.Command{
		Use:               "partner",
		Short:             "manage the partners of the purger",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	var req types.CreatePartnerRequest
	var cdns []string
	createCmd := &cobra.Command{
		Use:               "create",
		Short:             "create a partner with its enabled cdns",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			req.PluginIsEnabled = make(map[string]bool, len(cdns))
			for _, cdn := range cdns {
				req.PluginIsEnabled[cdn] = true
			}

			partner, err := client.CreatePartner(context.Background(), req)
			if err != nil {
				return err
			}

			return printJSON(partner)
		},
	}

	flags := createCmd.Flags()
	flags.StringVar(&req.TenantID, "tenant-id", "", "tenant of the partner")
	flags.StringVar(&req.Name, "name", "", "name of the partner, used as the afd partner id")
	flags.StringVar(&req.Hostname, "hostname", "", "default hostname that relative urls are resolved against")
	flags.StringSliceVar(&cdns, "cdn", nil, "enabled cdns, e.g. afd,akamai")

	getCmd := &cobra.Command{
		Use:               "get <partner-id>",
		Short:             "show a partner",
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			partner, err := client.GetPartner(context.Background(), args[0])
			if err != nil {
				return err
			}

			return printJSON(partner)
		},
	}

	listCmd := &cobra.Command{
		Use:               "list",
		Short:             "list every partner",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			partners, err := client.ListPartners(context.Background())
			if err != nil {
				return err
			}

			return printJSON(partners)
		},
	}

	partnerCmd.AddCommand(createCmd, getCmd, listCmd)
	return partnerCmd
}
