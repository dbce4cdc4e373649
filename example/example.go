package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-telegraph/telegraph"
	"github.com/go-telegraph/telegraph/upload"
)

const post = `# Field Notes

Some notes written in *markdown*.

## Links

See https://telegra.ph/api for the API reference.

- first
- second
`

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := telegraph.NewClient()

	account, err := client.CreateAccount(ctx, "sandbox", "Anonymous", "")
	if err != nil {
		panic(err)
	}
	fmt.Fprintf(os.Stderr, "created account %s, keep this token: %s\n",
		account.ShortName, account.AccessToken)

	page, err := client.CreatePage(ctx, telegraph.PageContent{
		Title:   "Field Notes",
		Content: post,
		Type:    telegraph.ContentTypeMarkdown,
	})
	if err != nil {
		panic(err)
	}
	fmt.Println("published:", page.URL)

	// any extra args are treated as image paths to upload
	if len(os.Args) > 1 {
		for _, r := range upload.UploadAll(ctx, os.Args[1:], 3, nil) {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
				continue
			}
			fmt.Println("uploaded:", r.URL)
		}
	}

	views, err := client.GetViews(ctx, page.Path, telegraph.ViewsFilter{})
	if err != nil {
		panic(err)
	}
	fmt.Println("views so far:", views.Views)
}
