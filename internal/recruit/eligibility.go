package recruit

import "strings"

// Step describes the result of one eligibility rule, mirroring how the
// pipeline logs each narrowing pass.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

type rule struct {
	name string
	keep func(c *Candidate, p *Posting) bool
}

func eligibilityRules() []rule {
	return []rule{
		{
			name: "open_status",
			keep: func(_ *Candidate, p *Posting) bool {
				return strings.TrimSpace(p.Status) == PostingStatusOpen
			},
		},
		{
			name: "role",
			keep: func(c *Candidate, p *Posting) bool {
				return strings.TrimSpace(p.Role) == strings.TrimSpace(c.Role)
			},
		},
		{
			name: "license",
			keep: func(c *Candidate, p *Posting) bool {
				return licenseCompatible(c.License, p.Requirement)
			},
		},
	}
}

// licenseCompatible reports whether a posting's license requirement admits
// the candidate. Licensed candidates are matched only to postings that ask
// for a license; unlicensed candidates may take either kind. Requirement
// values outside the two recognized ones never match.
func licenseCompatible(license, requirement string) bool {
	requirement = strings.TrimSpace(requirement)
	if strings.TrimSpace(license) == LicenseHeld {
		return requirement == RequirementRequired
	}
	return requirement == RequirementRequired || requirement == RequirementNotRequired
}

// Eligible narrows the posting set to those the candidate qualifies for. An
// empty result is not an error: the returned reason tells the caller why the
// pipeline should stop. A missing desired role is a hard stop before any rule
// runs.
func Eligible(c *Candidate, postings *Postings) (*Postings, []Step, NoMatchReason) {
	if strings.TrimSpace(c.Role) == "" {
		return nil, nil, NoMatchMissingRole
	}

	if postings.Len() == 0 {
		return nil, nil, NoMatchNoPostings
	}

	current := postings.Items
	steps := make([]Step, 0, 3)

	for _, r := range eligibilityRules() {
		initial := len(current)
		kept := make([]*Posting, 0, initial)
		for _, p := range current {
			if r.keep(c, p) {
				kept = append(kept, p)
			}
		}
		steps = append(steps, Step{
			Name:    r.name,
			Initial: initial,
			Dropped: initial - len(kept),
			Left:    len(kept),
		})
		current = kept
	}

	if len(current) == 0 {
		return nil, steps, NoMatchNoEligible
	}

	return &Postings{Items: current}, steps, NoMatchNone
}
