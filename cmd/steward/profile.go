package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/types"
)

var (
	personalityInstructions string
	personalityTraits       []string
	scopeContacts           []string
	masterChannel           string
	routingFallback         string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and configure a profile",
}

var personalityCmd = &cobra.Command{
	Use:   "personality [tone]",
	Short: "Show or set the personality",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPersonality,
}

var scopeCmd = &cobra.Command{
	Use:   "scope [all|allowlist|none]",
	Short: "Show or set the contact scope",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScope,
}

var masterCmd = &cobra.Command{
	Use:   "master [name] [address]",
	Short: "Show or set the master contact",
	Args:  cobra.RangeArgs(0, 2),
	RunE:  runMaster,
}

var routingCmd = &cobra.Command{
	Use:   "routing [round_robin|capability|manual]",
	Short: "Show or set the routing strategy",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRouting,
}

var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy",
	Short: "Show the agent tree rooted at this profile",
	Args:  cobra.NoArgs,
	RunE:  runHierarchy,
}

var childrenCmd = &cobra.Command{
	Use:   "children",
	Short: "List direct child agents",
	Args:  cobra.NoArgs,
	RunE:  runChildren,
}

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "List sibling team members",
	Args:  cobra.NoArgs,
	RunE:  runTeam,
}

func init() {
	personalityCmd.Flags().StringVar(&personalityInstructions, "instructions", "",
		"Free-form behavior instructions")
	personalityCmd.Flags().StringSliceVar(&personalityTraits, "trait", nil,
		"Personality trait (repeatable)")
	scopeCmd.Flags().StringSliceVar(&scopeContacts, "contact", nil,
		"Allowlisted contact (repeatable, allowlist mode only)")
	masterCmd.Flags().StringVar(&masterChannel, "channel", "", "Escalation channel")
	routingCmd.Flags().StringVar(&routingFallback, "fallback", "", "Fallback profile ID")

	profileCmd.AddCommand(personalityCmd)
	profileCmd.AddCommand(scopeCmd)
	profileCmd.AddCommand(masterCmd)
	profileCmd.AddCommand(routingCmd)
	profileCmd.AddCommand(hierarchyCmd)
	profileCmd.AddCommand(childrenCmd)
	profileCmd.AddCommand(teamCmd)
}

func runPersonality(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	ctx := context.Background()
	c := api()

	if len(args) == 0 {
		p, err := c.Personality(ctx, id)
		if err != nil {
			return fmt.Errorf("fetch personality: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tone: %s\ntraits: %s\ninstructions: %s\n",
			p.Tone, orDash(strings.Join(p.Traits, ", ")), orDash(p.Instructions))
		return nil
	}

	err = c.UpdatePersonality(ctx, id, types.Personality{
		Tone:         args[0],
		Instructions: personalityInstructions,
		Traits:       personalityTraits,
	})
	if err != nil {
		return fmt.Errorf("update personality: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Personality updated.")
	return nil
}

func runScope(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	ctx := context.Background()
	c := api()

	if len(args) == 0 {
		sc, err := c.ContactScope(ctx, id)
		if err != nil {
			return fmt.Errorf("fetch contact scope: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), sc)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mode: %s\ncontacts: %s\n",
			sc.Mode, orDash(strings.Join(sc.Contacts, ", ")))
		return nil
	}

	err = c.UpdateContactScope(ctx, id, types.ContactScope{
		Mode:     args[0],
		Contacts: scopeContacts,
	})
	if err != nil {
		return fmt.Errorf("update contact scope: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Contact scope updated.")
	return nil
}

func runMaster(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	ctx := context.Background()
	c := api()

	if len(args) == 0 {
		m, err := c.MasterContact(ctx, id)
		if err != nil {
			return fmt.Errorf("fetch master contact: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), m)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "name: %s\naddress: %s\nchannel: %s\n",
			orDash(m.Name), orDash(m.Address), orDash(m.Channel))
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("setting the master contact needs both name and address")
	}

	err = c.UpdateMasterContact(ctx, id, types.MasterContact{
		Name:    args[0],
		Address: args[1],
		Channel: masterChannel,
	})
	if err != nil {
		return fmt.Errorf("update master contact: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Master contact updated.")
	return nil
}

func runRouting(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	ctx := context.Background()
	c := api()

	if len(args) == 0 {
		rc, err := c.Routing(ctx, id)
		if err != nil {
			return fmt.Errorf("fetch routing: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), rc)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "strategy: %s\nfallback: %s\n",
			rc.Strategy, orDash(rc.FallbackTo))
		return nil
	}

	err = c.UpdateRouting(ctx, id, types.RoutingConfig{
		Strategy:   args[0],
		FallbackTo: routingFallback,
	})
	if err != nil {
		return fmt.Errorf("update routing: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Routing updated.")
	return nil
}

func runHierarchy(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	node, err := api().Hierarchy(context.Background(), id)
	if err != nil {
		return fmt.Errorf("fetch hierarchy: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), node)
	}
	printTree(cmd.OutOrStdout(), node, 0)
	return nil
}

func printTree(w io.Writer, node *types.HierarchyNode, depth int) {
	indent := strings.Repeat("  ", depth)
	role := ""
	if node.Role != "" {
		role = " (" + node.Role + ")"
	}
	fmt.Fprintf(w, "%s%s - %s%s\n", indent, node.AgenticID, node.Name, role)
	for i := range node.Children {
		printTree(w, &node.Children[i], depth+1)
	}
}

func runChildren(cmd *cobra.Command, args []string) error {
	return runMemberList(cmd, "children", func(ctx context.Context, id string) ([]types.TeamMember, int, error) {
		page, err := api().Children(ctx, id, listParams())
		return page.Items, page.Total, err
	})
}

func runTeam(cmd *cobra.Command, args []string) error {
	return runMemberList(cmd, "team", func(ctx context.Context, id string) ([]types.TeamMember, int, error) {
		page, err := api().Team(ctx, id, listParams())
		return page.Items, page.Total, err
	})
}

func runMemberList(cmd *cobra.Command, key string, fetch func(context.Context, string) ([]types.TeamMember, int, error)) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	members, total, err := fetch(context.Background(), id)
	if err != nil {
		return fmt.Errorf("list %s: %w", key, err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{key: members, "total": total})
	}
	if len(members) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s.\n", key)
		return nil
	}
	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tNAME\tROLE\tSTATUS")
	for _, m := range members {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			m.AgenticID, m.Name, orDash(m.Role), orDash(m.Status))
	}
	w.Flush()
	return nil
}
