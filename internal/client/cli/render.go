package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

func renderFeed(p *models.FeedPage, page int) (string, error) {
	if len(p.Posts) == 0 {
		return fmt.Sprintf("No posts on page %d (total %d)", page, p.TotalItems), nil
	}

	data := pterm.TableData{{"ID", "Title", "Author", "Created"}}
	for _, post := range p.Posts {
		data = append(data, []string{post.ID, post.Title, post.Creator.Name, formatTime(post.CreatedAt)})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\nPage %d, %d posts total", table, page, p.TotalItems), nil
}

func renderPost(p *models.Post) string {
	var b strings.Builder
	b.WriteString(pterm.DefaultSection.Sprint(p.Title))
	fmt.Fprintf(&b, "by %s on %s\n", p.Creator.Name, formatTime(p.CreatedAt))
	if !p.UpdatedAt.Equal(p.CreatedAt) && !p.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "updated %s\n", formatTime(p.UpdatedAt))
	}
	fmt.Fprintf(&b, "image: %s\n\n%s\n", p.ImageURL, p.Content)
	return b.String()
}

func renderEvent(ev models.Event) string {
	switch ev.Action {
	case "delete":
		return pterm.Warning.Sprintf("post %s deleted", ev.Post.ID)
	default:
		return pterm.Info.Sprintf("post %s %sd: %s", ev.Post.ID, ev.Action, ev.Post.Title)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
