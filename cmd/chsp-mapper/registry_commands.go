package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/registry"
)

func newRegistryCommand(ctx *commandContext) *cobra.Command {
	registryCmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the client registry",
	}

	registryCmd.AddCommand(newRegistryVerifyCommand(ctx))
	registryCmd.AddCommand(newRegistryLookupCommand(ctx))

	return registryCmd
}

func newRegistryVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Load the registry file and report its shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}
			snapshot := reg.Current()

			withEmail := 0
			withAddress := 0
			withPlatform := 0
			for _, id := range snapshot.ClientIDs() {
				client := snapshot.Client(id)
				if len(client.PersonalInfo.Emails) > 0 {
					withEmail++
				}
				if !client.Location.IsZero() {
					withAddress++
				}
				if len(client.PlatformIdentifiers) > 0 {
					withPlatform++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registry: %s\n", reg.Path())
			rows := [][2]string{
				{"Clients", formatCount(snapshot.Len())},
				{"With email", formatCount(withEmail)},
				{"With address", formatCount(withAddress)},
				{"With platform ids", formatCount(withPlatform)},
			}
			fmt.Fprintln(out, renderPairs("Metric", "Value", rows, true))
			return nil
		},
	}
}

func newRegistryLookupCommand(ctx *commandContext) *cobra.Command {
	var (
		email   string
		name    string
		address string
	)

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look up clients by email, name, or address",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			snapshot := reg.Current()
			out := cmd.OutOrStdout()

			switch {
			case strings.TrimSpace(email) != "":
				clientID := snapshot.FindByEmail(email)
				if clientID == "" {
					fmt.Fprintf(out, "No client with email %s\n", email)
					return nil
				}
				printClient(out, snapshot, clientID)
			case strings.TrimSpace(name) != "":
				clientIDs := snapshot.FindByName(name)
				if len(clientIDs) == 0 {
					fmt.Fprintf(out, "No client named %s\n", name)
					return nil
				}
				for _, clientID := range clientIDs {
					printClient(out, snapshot, clientID)
				}
			case strings.TrimSpace(address) != "":
				minScore := matching.OptionsFromConfig(cfg).AddressMinScore
				match, ok := snapshot.FindByAddress(address, minScore)
				if !ok {
					fmt.Fprintf(out, "No client matched address %q\n", address)
					return nil
				}
				fmt.Fprintf(out, "Matched via %s (score %s)\n",
					match.Strategy, strconv.FormatFloat(match.Score, 'f', 2, 64))
				printClient(out, snapshot, match.ClientID)
			default:
				return fmt.Errorf("pass one of --email, --name, or --address")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Exact email lookup")
	cmd.Flags().StringVar(&name, "name", "", "Exact full-name lookup")
	cmd.Flags().StringVar(&address, "address", "", "Fuzzy address lookup")
	return cmd
}

func printClient(out io.Writer, snapshot *registry.Snapshot, clientID string) {
	client := snapshot.Client(clientID)
	if client == nil {
		return
	}
	fmt.Fprintf(out, "%s: %s\n", clientID, client.FullName())
	if len(client.PersonalInfo.Emails) > 0 {
		fmt.Fprintf(out, "  emails:  %s\n", strings.Join(client.PersonalInfo.Emails, ", "))
	}
	if !client.Location.IsZero() {
		fmt.Fprintf(out, "  address: %s\n", client.Location.CandidateAddress())
	}
	for _, platformID := range client.PlatformIdentifiers {
		fmt.Fprintf(out, "  platform %s: %v\n", platformID.Platform, platformID.Identifiers)
	}
}
