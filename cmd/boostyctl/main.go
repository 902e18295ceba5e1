// Command boostyctl is a small CLI for poking at the Boosty API with the
// client library. Credentials come from the environment (or a .env file):
// either BOOSTY_ACCESS_TOKEN, or BOOSTY_REFRESH_TOKEN plus BOOSTY_DEVICE_ID.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	boosty "github.com/ath31st/boosty-api-go"
	"github.com/ath31st/boosty-api-go/pkg/types"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	flagBlog    string
	flagLimit   int
	flagOffset  string
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "boostyctl",
		Short:         "Inspect Boosty blogs, posts, and subscriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flagBlog, "blog", "b", "", "blog name or URL slug")
	root.PersistentFlags().IntVarP(&flagLimit, "limit", "l", 0, "maximum number of items to fetch")
	root.PersistentFlags().StringVar(&flagOffset, "offset", "", "pagination offset cursor")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		postCmd(),
		postsCmd(),
		commentsCmd(),
		targetsCmd(),
		levelsCmd(),
		subscriptionsCmd(),
		showcaseCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newClient builds a client from environment credentials. A missing .env
// file is fine; real environment variables still apply.
func newClient() (*boosty.Client, error) {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
	if !flagVerbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	client, err := boosty.NewClient(&boosty.Config{Logger: &logger})
	if err != nil {
		return nil, err
	}

	if token := os.Getenv("BOOSTY_ACCESS_TOKEN"); token != "" {
		if err := client.SetBearerToken(token); err != nil {
			return nil, err
		}
		return client, nil
	}

	refreshToken := os.Getenv("BOOSTY_REFRESH_TOKEN")
	deviceID := os.Getenv("BOOSTY_DEVICE_ID")
	if refreshToken != "" && deviceID != "" {
		if err := client.SetRefreshPair(refreshToken, deviceID); err != nil {
			return nil, err
		}
	}

	return client, nil
}

func printJSON(v any) error {
	out, err := jsonAPI.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func requireBlog() error {
	if flagBlog == "" {
		return fmt.Errorf("--blog is required")
	}
	return nil
}

func postCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post <post-id>",
		Short: "Fetch a single post and summarize its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBlog(); err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}

			post, err := client.GetPost(cmd.Context(), flagBlog, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s)\n", post.SafeTitle(), post.ID)
			for _, item := range post.ExtractContent() {
				switch v := item.(type) {
				case types.Text:
					fmt.Println("  text:", v.Content)
				case types.Image:
					fmt.Println("  image:", v.URL)
				case types.Video:
					fmt.Println("  video:", v.URL)
				case types.OkVideo:
					fmt.Printf("  video: %s (%s)\n", v.URL, v.Title)
				case types.Audio:
					fmt.Printf("  audio: %s (%s)\n", v.URL, v.Title)
				case types.Link:
					fmt.Println("  link:", v.URL)
				case types.File:
					fmt.Printf("  file: %s (%d bytes)\n", v.URL, v.Size)
				case types.Unknown:
					fmt.Println("  <unsupported block>")
				}
			}
			return nil
		},
	}
}

func postsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "List a blog's posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBlog(); err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}

			page, err := client.GetPosts(cmd.Context(), flagBlog, &types.PostsRequest{
				Limit:  flagLimit,
				Offset: flagOffset,
			})
			if err != nil {
				return err
			}

			for i := range page.Data {
				post := &page.Data[i]
				marker := " "
				if post.NotAvailable() {
					marker = "*"
				}
				fmt.Printf("%s %s  %s\n", marker, post.ID, post.SafeTitle())
			}
			if !page.Extra.IsLast {
				fmt.Println("next offset:", page.Extra.Offset)
			}
			return nil
		},
	}
}

func commentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <post-id>",
		Short: "List comments on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBlog(); err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}

			page, err := client.GetComments(cmd.Context(), &types.CommentsRequest{
				Blog:   flagBlog,
				PostID: args[0],
				Limit:  flagLimit,
			})
			if err != nil {
				return err
			}

			for i := range page.Data {
				comment := &page.Data[i]
				fmt.Printf("%s (%s):\n", comment.Author.Name, comment.ID)
				for _, item := range comment.ExtractContent() {
					if text, ok := item.(types.Text); ok {
						fmt.Println(" ", text.Content)
					}
				}
			}
			return nil
		},
	}
}

func targetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List a blog's funding targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBlog(); err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}

			targets, err := client.GetBlogTargets(cmd.Context(), flagBlog)
			if err != nil {
				return err
			}
			return printJSON(targets)
		},
	}
}

func levelsCmd() *cobra.Command {
	var showFree bool
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List a blog's subscription levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBlog(); err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}

			levels, err := client.GetSubscriptionLevels(cmd.Context(), flagBlog, showFree)
			if err != nil {
				return err
			}
			return printJSON(levels)
		},
	}
	cmd.Flags().BoolVar(&showFree, "show-free", false, "include the free level")
	return cmd
}

func subscriptionsCmd() *cobra.Command {
	var withFollow bool
	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "List the current user's subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			page, err := client.GetSubscriptions(cmd.Context(), &types.SubscriptionsRequest{
				Limit:      flagLimit,
				WithFollow: withFollow,
			})
			if err != nil {
				return err
			}
			return printJSON(page)
		},
	}
	cmd.Flags().BoolVar(&withFollow, "with-follow", false, "include followed blogs")
	return cmd
}

func showcaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "showcase",
		Short: "List a blog's showcase items",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBlog(); err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}

			page, err := client.GetShowcase(cmd.Context(), &types.ShowcaseRequest{
				Blog:  flagBlog,
				Limit: flagLimit,
			})
			if err != nil {
				return err
			}
			return printJSON(page)
		},
	}
}
