// Package boosty provides a typed Go client for the Boosty content platform
// API, with support for static bearer tokens and the OAuth-style
// refresh-token flow.
//
// The client covers posts, comments, subscriptions, subscription levels,
// funding targets, tags, and blog showcases, and converts the platform's
// tagged JSON content blocks into a closed set of typed content variants.
// Authentication failures are handled transparently: when the API signals
// token expiry and a refresh pair is configured, the client refreshes the
// access token and retries the request exactly once.
//
// Basic usage:
//
//	client, err := boosty.NewClient(&boosty.Config{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := client.SetRefreshPair("refresh-token", "device-id"); err != nil {
//		log.Fatal(err)
//	}
//
//	post, err := client.GetPost(ctx, "someblog", "post-id")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, item := range post.ExtractContent() {
//		switch v := item.(type) {
//		case types.Image:
//			fmt.Println("image:", v.URL)
//		case types.Text:
//			fmt.Println("text:", v.Content)
//		}
//	}
package boosty
