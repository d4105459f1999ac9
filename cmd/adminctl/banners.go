package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/angelmondragon/storefront-admin/pkg/adminclient"
)

func (c *cli) banners(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("banners needs a subcommand: list|add|edit|delete|trash|restore|force")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return c.bannerList(ctx, rest)
	case "add":
		return c.bannerAdd(ctx, rest)
	case "edit":
		return c.bannerEdit(ctx, rest)
	case "delete":
		return c.bannerRemove(ctx, rest, "delete", "Delete", c.client.DeleteBanner)
	case "trash":
		items, err := c.client.TrashBanners(ctx)
		if err != nil {
			return err
		}
		c.printBanners(items)
		return nil
	case "restore":
		fs := c.flags("restore")
		id := fs.Uint("id", 0, "banner id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("restore needs -id")
		}
		msg, err := c.client.RestoreBanner(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, msg)
		return nil
	case "force":
		return c.bannerRemove(ctx, rest, "force", "Permanently delete", c.client.ForceDeleteBanner)
	default:
		return fmt.Errorf("unknown banners subcommand %q", sub)
	}
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("banners "+name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	return fs
}

func (c *cli) bannerList(ctx context.Context, args []string) error {
	fs := c.flags("list")
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 0, "rows per page (server default when 0)")
	keyword := fs.String("keyword", "", "search title")
	if err := fs.Parse(args); err != nil {
		return err
	}
	items, meta, err := c.client.ListBanners(ctx, *page, *perPage, *keyword)
	if err != nil {
		return err
	}
	c.printBanners(items)
	fmt.Fprintf(c.out, "page %d of %d (%d total)\n", meta.CurrentPage, meta.LastPage, meta.Total)
	return nil
}

func (c *cli) printBanners(items []adminclient.Banner) {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tLINK\tACTIVE\tIMAGE")
	for _, b := range items {
		link := "-"
		if b.Link != nil && *b.Link != "" {
			link = *b.Link
		}
		image := "-"
		if len(b.Images) > 0 {
			image = b.Images[0].ImageURL
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", b.ID, b.Title, link, b.IsActive, image)
	}
	_ = tw.Flush()
}

type bannerFlags struct {
	title         *string
	link          *string
	inactive      *bool
	file          *string
	url           *string
	imageInactive *bool
}

func registerBannerFlags(fs *flag.FlagSet) bannerFlags {
	return bannerFlags{
		title:         fs.String("title", "", "banner title"),
		link:          fs.String("link", "", "target link"),
		inactive:      fs.Bool("inactive", false, "create the banner hidden"),
		file:          fs.String("file", "", "local image file (max 8MB)"),
		url:           fs.String("url", "", "image url; ignored when -file is set"),
		imageInactive: fs.Bool("image-inactive", false, "mark the image hidden"),
	}
}

func (c *cli) bannerAdd(ctx context.Context, args []string) error {
	fs := c.flags("add")
	f := registerBannerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*f.title) == "" {
		return fmt.Errorf("add needs -title")
	}
	b, err := c.client.CreateBanner(ctx, adminclient.BannerForm{
		Title:       *f.title,
		Link:        *f.link,
		IsActive:    !*f.inactive,
		ImageFile:   *f.file,
		ImageURL:    *f.url,
		ImageActive: !*f.imageInactive,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Banner %d created\n", b.ID)
	return nil
}

// bannerEdit starts from the stored banner and applies only the flags given.
func (c *cli) bannerEdit(ctx context.Context, args []string) error {
	fs := c.flags("edit")
	id := fs.Uint("id", 0, "banner id")
	f := registerBannerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("edit needs -id")
	}
	current, err := c.client.GetBanner(ctx, *id)
	if err != nil {
		return err
	}

	form := adminclient.BannerForm{
		Title:       current.Title,
		IsActive:    current.IsActive,
		ImageActive: true,
	}
	if current.Link != nil {
		form.Link = *current.Link
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			form.Title = *f.title
		case "link":
			form.Link = *f.link
		case "inactive":
			form.IsActive = !*f.inactive
		case "file":
			form.ImageFile = *f.file
		case "url":
			form.ImageURL = *f.url
		case "image-inactive":
			form.ImageActive = !*f.imageInactive
		}
	})

	if _, err := c.client.UpdateBanner(ctx, *id, form); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Banner %d updated\n", *id)
	return nil
}

func (c *cli) bannerRemove(ctx context.Context, args []string, name, verb string, op func(context.Context, uint) (string, error)) error {
	fs := c.flags(name)
	id := fs.Uint("id", 0, "banner id")
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("%s needs -id", name)
	}
	if !*yes && !c.confirm(fmt.Sprintf("%s banner %d?", verb, *id)) {
		fmt.Fprintln(c.out, "Aborted")
		return nil
	}
	msg, err := op(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, msg)
	return nil
}

func (c *cli) confirm(question string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(c.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
