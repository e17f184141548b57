package interact

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"igpilot/pkg/device"
	"igpilot/pkg/errs"
	"igpilot/pkg/harvest"
)

// ScriptedApp implements AppDriver against any device.ActionSource
// using a fixed synthetic screen naming scheme. It backs the dry-run
// mode and the package tests; a real integration supplies its own
// AppDriver with the app's actual element-finding.
//
// Screen scheme: "profile/<user>" exists when the profile is
// reachable, "profile/<user>/posts_count" reads the post count, and
// "post/<user>/<n>/likers" / ".../commenters" read the full list as
// comma-separated usernames.
type ScriptedApp struct {
	dev      device.ActionSource
	pageSize int

	// InteractResult decides the outcome of an interaction. Defaults
	// to a successful interaction with one like.
	InteractResult func(username string) Result

	currentProfile string
	currentPost    int
}

// NewScriptedApp creates a driver paging lists pageSize items at a time.
func NewScriptedApp(dev device.ActionSource, pageSize int) *ScriptedApp {
	if pageSize < 1 {
		pageSize = 10
	}
	return &ScriptedApp{
		dev:      dev,
		pageSize: pageSize,
		InteractResult: func(string) Result {
			return Result{Succeeded: true, Likes: 1}
		},
	}
}

func (a *ScriptedApp) OpenProfile(ctx context.Context, username string) error {
	if err := a.dev.NavigateTo(username); err != nil {
		return err
	}
	if !a.dev.Exists(device.Target("profile/"+username), 2*time.Second) {
		return errs.ActionFailed("profile not reachable: "+username, nil)
	}
	a.currentProfile = username
	return nil
}

func (a *ScriptedApp) PostsCount(ctx context.Context) (int, error) {
	text, err := a.dev.ReadText(device.Target("profile/" + a.currentProfile + "/posts_count"))
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, errs.ActionFailed("unreadable posts count "+text, err)
	}
	return count, nil
}

func (a *ScriptedApp) OpenPost(ctx context.Context, index int) error {
	target := device.Target(fmt.Sprintf("post/%s/%d", a.currentProfile, index))
	if err := a.dev.Click(target); err != nil {
		return err
	}
	a.currentPost = index
	return nil
}

func (a *ScriptedApp) OpenLikers(ctx context.Context) (harvest.Pager[string], error) {
	return a.openList(ctx, "likers")
}

func (a *ScriptedApp) OpenCommenters(ctx context.Context) (harvest.Pager[string], error) {
	return a.openList(ctx, "commenters")
}

func (a *ScriptedApp) openList(ctx context.Context, kind string) (harvest.Pager[string], error) {
	region := device.Target(fmt.Sprintf("post/%s/%d/%s", a.currentProfile, a.currentPost, kind))
	if err := a.dev.Click(region); err != nil {
		return nil, err
	}
	text, err := a.dev.ReadText(region)
	if err != nil {
		return nil, err
	}
	var items []string
	for _, item := range strings.Split(text, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return &scriptedPager{dev: a.dev, region: region, items: items, pageSize: a.pageSize}, nil
}

func (a *ScriptedApp) InteractWith(ctx context.Context, username string) (Result, error) {
	if err := a.dev.Click(device.Target("user/" + username)); err != nil {
		return Result{}, err
	}
	result := a.InteractResult(username)
	if err := a.dev.GoBack(); err != nil {
		return Result{}, err
	}
	return result, nil
}

func (a *ScriptedApp) Back(ctx context.Context) error {
	return a.dev.GoBack()
}

// scriptedPager pages over a fixed username list. Scrolling past the
// end keeps returning the final page, like a real list that has
// stopped yielding new rows.
type scriptedPager struct {
	dev      device.ActionSource
	region   device.Target
	items    []string
	pageSize int
	offset   int
}

func (p *scriptedPager) VisibleItems(ctx context.Context) ([]string, error) {
	if p.offset >= len(p.items) {
		start := len(p.items) - p.pageSize
		if start < 0 {
			start = 0
		}
		return p.items[start:], nil
	}
	end := p.offset + p.pageSize
	if end > len(p.items) {
		end = len(p.items)
	}
	return p.items[p.offset:end], nil
}

func (p *scriptedPager) ScrollDown(ctx context.Context) error {
	if err := p.dev.Scroll(p.region, device.DirectionDown); err != nil {
		return err
	}
	if p.offset < len(p.items) {
		p.offset += p.pageSize
	}
	return nil
}
