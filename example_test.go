package crumb_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ovenbird/crumb"
	"github.com/ovenbird/crumb/pkg/post"
)

// Example_basic opens a fresh site, saves a post, and reads it back.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "crumb-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	config := "title: Oven Notes\nbase_url: https://example.com\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "crumb.yaml"), []byte(config), 0o644); err != nil {
		log.Fatal(err)
	}

	// Gitless keeps the example self-contained; a real site would
	// drop the option and let the vault manage its git repository.
	blog, err := crumb.Open(tmpDir, crumb.WithAutoInit(), crumb.WithGitless())
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	err = blog.SavePost(ctx, &post.Post{
		Slug:    "essays/boule",
		Title:   "Shaping a Boule",
		Tags:    []string{"baking"},
		Content: "Crumb structure depends on surface tension.",
	})
	if err != nil {
		log.Fatal(err)
	}

	p, err := blog.Post(ctx, "essays/boule")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(p.Title)

	metas, err := blog.Posts(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range metas {
		fmt.Println(m.Slug)
	}

	// Output:
	// Shaping a Boule
	// essays/boule
}
