package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
)

// List prints one page of the feed. The optional argument is the page
// number.
func (a *App) List(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return usage("posts [page]")
		}
		page = n
	}

	p, err := a.feedService.Page(ctx, page)
	if err != nil {
		return err
	}
	out, err := renderFeed(p, page)
	if err != nil {
		return err
	}
	printlnFn(out)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <id>")
	}
	p, err := a.feedService.Get(ctx, args[0])
	if err != nil {
		return err
	}
	printlnFn(renderPost(p))
	return nil
}

// readDraft prompts for the post fields. When current is set its title and
// content are offered as defaults and a blank image path keeps the image.
func (a *App) readDraft(current *models.Post) (models.PostDraft, error) {
	var d models.PostDraft
	var title, content string
	imageLabel := "Image file (png/jpg)"
	if current != nil {
		title, content = current.Title, current.Content
		imageLabel = "New image file (blank keeps the current one)"
	}

	var err error
	if d.Title, err = readLine(a.reader, os.Stdout, "Title", title); err != nil {
		return d, err
	}
	if d.Content, err = readBody(a.reader, os.Stdout, "Content", content); err != nil {
		return d, err
	}
	if d.ImagePath, err = readLine(a.reader, os.Stdout, imageLabel, ""); err != nil {
		return d, err
	}
	if current != nil && d.ImagePath == "" {
		d.ImageURL = current.ImageURL
	}
	return d, nil
}

// Post creates a post from prompted title, content and image file.
func (a *App) Post(ctx context.Context) error {
	d, err := a.readDraft(nil)
	if err != nil {
		return err
	}
	p, err := a.feedService.Create(ctx, d)
	if err != nil {
		return err
	}
	printlnFn(pterm.Success.Sprintf("Post created: %s", p.ID))
	return nil
}

// Edit loads the post first so unchanged fields can be kept.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("edit <id>")
	}
	current, err := a.feedService.Get(ctx, args[0])
	if err != nil {
		return err
	}
	d, err := a.readDraft(current)
	if err != nil {
		return err
	}
	p, err := a.feedService.Edit(ctx, args[0], d)
	if err != nil {
		return err
	}
	printlnFn(pterm.Success.Sprintf("Post updated: %s", p.ID))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <id>")
	}
	if err := a.feedService.Delete(ctx, args[0]); err != nil {
		return err
	}
	printlnFn(pterm.Success.Sprint("Post deleted"))
	return nil
}
