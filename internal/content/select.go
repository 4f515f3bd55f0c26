package content

import "strings"

// Filter returns the posts matching keep.
func (p Posts) Filter(keep func(Post) bool) Posts {
	out := make(Posts, 0, len(p))
	for _, post := range p {
		if keep(post) {
			out = append(out, post)
		}
	}
	return out
}

// Limit returns at most n posts; n <= 0 returns every post.
func (p Posts) Limit(n int) Posts {
	if n <= 0 || n >= len(p) {
		return append(Posts{}, p...)
	}
	return append(Posts{}, p[:n]...)
}

// Slugs lists the slug of every post.
func (p Posts) Slugs() []string {
	out := make([]string, 0, len(p))
	for _, post := range p {
		out = append(out, post.Slug)
	}
	return out
}

// Hero returns the posts flagged as hero, or every post when none is.
func (p Posts) Hero(limit int) Posts {
	flagged := p.Filter(func(post Post) bool { return post.Hero })
	if len(flagged) == 0 {
		return p.Limit(limit)
	}
	return flagged.Limit(limit)
}

// Editorial returns posts of the editorial category.
func (p Posts) Editorial(limit int) Posts {
	return p.ByCategory(EditorialCategory, limit)
}

// ByCategory returns posts whose category slug equals slug.
func (p Posts) ByCategory(slug string, limit int) Posts {
	return p.Filter(func(post Post) bool { return post.CategorySlug == slug }).Limit(limit)
}

// BySlug finds a post by exact slug.
func (p Posts) BySlug(slug string) (Post, bool) {
	for _, post := range p {
		if post.Slug == slug {
			return post, true
		}
	}
	return Post{}, false
}

// BySlugFold finds a post by slug ignoring case and surrounding space.
func (p Posts) BySlugFold(slug string) (Post, bool) {
	want := foldKey(slug)
	for _, post := range p {
		if foldKey(post.Slug) == want {
			return post, true
		}
	}
	return Post{}, false
}

// Related returns other posts of the same category. A post without a
// category is related to every other post.
func (p Posts) Related(current Post, limit int) Posts {
	return p.Filter(func(post Post) bool {
		if post.Slug == current.Slug {
			return false
		}
		return current.CategorySlug == "" || post.CategorySlug == current.CategorySlug
	}).Limit(limit)
}

// Breaking returns posts flagged as breaking news.
func (p Posts) Breaking(limit int) Posts {
	return p.Filter(func(post Post) bool { return post.Breaking }).Limit(limit)
}

// MostRead returns posts flagged most-read ordered by their manual order.
func (p Posts) MostRead(limit int) Posts {
	flagged := p.Filter(func(post Post) bool { return post.MostRead })
	return SortByOrder(flagged, MostReadOrder).Limit(limit)
}

// EditorPicks returns posts flagged as editor picks ordered by their manual order.
func (p Posts) EditorPicks(limit int) Posts {
	flagged := p.Filter(func(post Post) bool { return post.EditorPick })
	return SortByOrder(flagged, EditorPickOrder).Limit(limit)
}

// TV returns video posts.
func (p Posts) TV() Posts {
	return p.Filter(Post.IsTV)
}

// ByTag returns posts carrying tag, compared case-insensitively.
func (p Posts) ByTag(tag string) Posts {
	return p.Filter(func(post Post) bool { return post.HasTag(tag) })
}

// ByAuthor returns posts whose author matches name, compared case-insensitively.
func (p Posts) ByAuthor(name string) Posts {
	want := foldKey(name)
	if want == "" {
		return Posts{}
	}
	return p.Filter(func(post Post) bool { return foldKey(post.Author) == want })
}

// Latest returns the newest posts, skipping the slug in exclude.
func (p Posts) Latest(limit int, exclude string) Posts {
	exclude = strings.TrimSpace(exclude)
	return p.Filter(func(post Post) bool {
		return exclude == "" || post.Slug != exclude
	}).Limit(limit)
}

// UsedCategories returns the category slug to display title pairs seen on
// posts, in first-seen order.
func (p Posts) UsedCategories() []Category {
	seen := map[string]struct{}{}
	var out []Category
	for _, post := range p {
		if post.CategorySlug == "" || post.Category == "" {
			continue
		}
		if _, ok := seen[post.CategorySlug]; ok {
			continue
		}
		seen[post.CategorySlug] = struct{}{}
		out = append(out, Category{Slug: post.CategorySlug, Title: post.Category})
	}
	return out
}

// UsedTags returns every tag in first-seen order, folded to lower case.
func (p Posts) UsedTags() []string {
	return p.collect(func(post Post) []string { return post.Tags })
}

// UsedAuthors returns every author in first-seen order, folded to lower case.
func (p Posts) UsedAuthors() []string {
	return p.collect(func(post Post) []string { return []string{post.Author} })
}

func (p Posts) collect(values func(Post) []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, post := range p {
		for _, value := range values(post) {
			key := foldKey(value)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	return out
}
