package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"x-fetcher/internal/creds"
	"x-fetcher/internal/xapi"
)

type app struct {
	client *xapi.Client
}

func main() {
	// .env is optional and never overrides variables already set in the
	// environment
	_ = godotenv.Load()

	var (
		verbose bool
		a       app
	)

	root := &cobra.Command{
		Use:           "x-fetcher",
		Short:         "Fetch posts from X (Twitter) and post replies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if verbose {
				var err error
				logger, err = zap.NewDevelopment(zap.WithCaller(true))
				if err != nil {
					return fmt.Errorf("unable to initialize logger: %w", err)
				}
			}

			credentials, err := creds.FromEnv()
			if err != nil {
				return fmt.Errorf("unable to resolve credentials: %w", err)
			}

			client, err := xapi.NewClient(logger, credentials)
			if err != nil {
				return fmt.Errorf("unable to initialize client: %w", err)
			}
			a.client = client

			return nil
		},
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	root.AddCommand(tweetCmd(&a), userCmd(&a), replyCmd(&a))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func tweetCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "tweet <id>",
		Short: "Fetch a single tweet by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.GetTweet(args[0])
			if err != nil {
				return err
			}

			if raw {
				return printJSON(res)
			}

			printPost(res.Data)

			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw JSON response")

	return cmd
}

func userCmd(a *app) *cobra.Command {
	var (
		maxResults int
		replyText  string
		raw        bool
	)

	cmd := &cobra.Command{
		Use:   "user <username>",
		Short: "Fetch recent posts from a user (by handle or numeric ID)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.client.GetUserPosts(args[0], &xapi.PostsParams{MaxResults: maxResults})
			if err != nil {
				return err
			}

			if raw {
				return printJSON(list)
			}

			if len(list.Data) == 0 {
				return fmt.Errorf("no posts found for %s", args[0])
			}

			for _, p := range list.Data {
				printPost(p)
			}

			if replyText == "" {
				return nil
			}

			latest := list.Data[0]
			fmt.Fprintf(os.Stderr, "Replying to latest tweet %s...\n", latest.ID)

			res, err := a.client.ReplyTo(latest.ID, replyText)
			if err != nil {
				return err
			}

			return reportCreated(res, false)
		},
	}
	cmd.Flags().IntVar(&maxResults, "max", 10, "max posts to fetch")
	cmd.Flags().StringVar(&replyText, "reply", "", "reply to the user's latest post with this text")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw JSON response")

	return cmd
}

func replyCmd(a *app) *cobra.Command {
	var (
		user    string
		tweetID string
		text    string
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "reply",
		Short: "Reply to a tweet (needs OAuth 1.0a keys in the environment)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (user == "") == (tweetID == "") {
				return errors.New("use either --user USER or --tweet-id ID")
			}

			id := tweetID
			if user != "" {
				latest, err := a.client.GetLatestPost(user, nil)
				if err != nil {
					return err
				}
				if latest == nil {
					return fmt.Errorf("no recent post found for %s", user)
				}

				fmt.Fprintf(os.Stderr, "Latest post: [%s] %.60s...\n", latest.CreatedAt, latest.Text)
				id = latest.ID
			}

			res, err := a.client.ReplyTo(id, text)
			if err != nil {
				return err
			}

			return reportCreated(res, raw)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "reply to this user's latest post")
	cmd.Flags().StringVar(&tweetID, "tweet-id", "", "tweet ID to reply to")
	cmd.Flags().StringVarP(&text, "text", "t", "", "reply text")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw JSON response")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func printPost(p xapi.Post) {
	fmt.Printf("[%s] @%s\n", p.CreatedAt, p.ID)
	fmt.Println(p.Text)
	if p.PublicMetrics != nil {
		fmt.Printf(
			"  likes=%d retweets=%d replies=%d\n",
			p.PublicMetrics.LikeCount,
			p.PublicMetrics.RetweetCount,
			p.PublicMetrics.ReplyCount,
		)
	}
	fmt.Println()
}

func reportCreated(res *xapi.CreatedPost, raw bool) error {
	if raw || res.Data.ID == "" {
		return printJSON(res)
	}

	fmt.Printf("Posted reply: %s - %s\n", res.Data.ID, res.Data.Text)

	return nil
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal output: %w", err)
	}
	fmt.Println(string(b))

	return nil
}
