package proc

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/rolekeeper/sys"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	MaxCustomRoleLength = 17
	MaxCustomRoleDigits = 2
)

// AssignResult tells callers which wording to use.
type AssignResult int

const (
	Assigned AssignResult = iota
	AlreadyHasRole
)

// Member is the acting guild member of an interaction.
type Member struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
	Roles   RoleHolder
}

// CustomRoleProvisioner creates or reuses user-named roles and hands out roles to members.
type CustomRoleProvisioner struct {
	platform  RolePlatform
	profanity ProfanityChecker
	catalog   *RoleCatalog
	cooldown  time.Duration

	limiters sync.Map // map[snowflake.ID]*rate.Limiter
	flight   singleflight.Group
}

func NewCustomRoleProvisioner(platform RolePlatform, profanity ProfanityChecker, catalog *RoleCatalog, cooldown time.Duration) *CustomRoleProvisioner {
	return &CustomRoleProvisioner{
		platform:  platform,
		profanity: profanity,
		catalog:   catalog,
		cooldown:  cooldown,
	}
}

// NormalizeName trims and collapses whitespace.
func NormalizeName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Validate checks length, then digits, then profanity. The first failure wins. A name that is
// blank after normalization is rejected as Empty.
func (p *CustomRoleProvisioner) Validate(raw string) (string, error) {
	name := NormalizeName(raw)
	if name == "" {
		return "", &ValidationError{Reason: Empty}
	}

	if utf8.RuneCountInString(name) > MaxCustomRoleLength {
		return "", &ValidationError{Reason: TooLong, Name: name}
	}

	digits := 0
	for _, r := range name {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits > MaxCustomRoleDigits {
		return "", &ValidationError{Reason: TooManyDigits, Name: name}
	}

	if p.IsProfane(name) {
		return "", &ValidationError{Reason: Profane, Name: name}
	}

	return name, nil
}

// IsProfane runs text through the same filter as custom role names.
func (p *CustomRoleProvisioner) IsProfane(text string) bool {
	return p.profanity != nil && p.profanity.IsProfane(text)
}

// Allow consumes one custom role request from the user's budget, or returns ErrRateLimited.
func (p *CustomRoleProvisioner) Allow(userID snowflake.ID) error {
	if p.cooldown <= 0 {
		return nil
	}
	v, _ := p.limiters.LoadOrStore(userID, rate.NewLimiter(rate.Every(p.cooldown), 1))
	if !v.(*rate.Limiter).Allow() {
		return ErrRateLimited
	}
	return nil
}

// Provision returns the id of the custom role called name, creating it when absent.
// Names of fixed roles and of existing non-custom roles are refused before any mutation.
func (p *CustomRoleProvisioner) Provision(ctx context.Context, guildID snowflake.ID, name string) (snowflake.ID, error) {
	if p.catalog != nil && p.catalog.IsFixedName(name) {
		return 0, &ValidationError{Reason: Reserved, Name: name}
	}

	v, err, _ := p.flight.Do(guildID.String()+"/"+name, func() (any, error) {
		roles, err := p.platform.ListRoles(ctx, guildID)
		if err != nil {
			return snowflake.ID(0), provisioningFailed(err)
		}

		if r, ok := findRoleByName(roles, name); ok {
			if r.Color != ColorCustom {
				return snowflake.ID(0), &ValidationError{Reason: Reserved, Name: name}
			}
			sys.LogCatalog(sys.MsgCustomRoleReused, r.Name, r.ID, guildID)
			return r.ID, nil
		}

		r, err := p.platform.CreateRole(ctx, guildID, name, ColorCustom)
		if err != nil {
			return snowflake.ID(0), provisioningFailed(err)
		}
		sys.LogCatalog(sys.MsgCustomRoleCreated, r.Name, r.ID, guildID)
		return r.ID, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(snowflake.ID), nil
}

// Assign gives the member roleID unless they already hold it, in which case no remote call is made.
func (p *CustomRoleProvisioner) Assign(ctx context.Context, member Member, roleID snowflake.ID) (AssignResult, error) {
	if member.Roles != nil && member.Roles.HasRole(roleID) {
		return AlreadyHasRole, nil
	}
	if err := p.platform.AddMemberRole(ctx, member.GuildID, member.UserID, roleID); err != nil {
		return Assigned, err
	}
	return Assigned, nil
}
