package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"housepoints/internal/domain"
)

// MaxAwardPoints caps approver overrides to prevent erroneous award
// inflation.
const MaxAwardPoints = 100

// AwardPolicy is the deterministic point table applied when an approver
// does not override the award. It is configuration, not business logic
// callers must duplicate.
type AwardPolicy struct {
	base        map[domain.CertificateType]map[domain.CertificateLevel]int
	maxOverride int
}

// awardPolicyFile is the YAML shape of a policy override file.
type awardPolicyFile struct {
	MaxOverride int                       `yaml:"max_override"`
	Base        map[string]map[string]int `yaml:"base"`
}

// DefaultAwardPolicy returns the built-in point table:
// internal 20/30/40 and external 30/50/60 for
// beginner/intermediate/advanced.
func DefaultAwardPolicy() *AwardPolicy {
	return &AwardPolicy{
		base: map[domain.CertificateType]map[domain.CertificateLevel]int{
			domain.CertInternal: {
				domain.LevelBeginner:     20,
				domain.LevelIntermediate: 30,
				domain.LevelAdvanced:     40,
			},
			domain.CertExternal: {
				domain.LevelBeginner:     30,
				domain.LevelIntermediate: 50,
				domain.LevelAdvanced:     60,
			},
		},
		maxOverride: MaxAwardPoints,
	}
}

// LoadAwardPolicy reads a YAML policy file and merges it over the
// defaults. Missing cells keep their default value.
func LoadAwardPolicy(path string) (*AwardPolicy, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-controlled
	if err != nil {
		return nil, fmt.Errorf("read award policy %s: %w", path, err)
	}

	var file awardPolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse award policy %s: %w", path, err)
	}

	policy := DefaultAwardPolicy()
	if file.MaxOverride > 0 {
		policy.maxOverride = file.MaxOverride
	}
	for certType, levels := range file.Base {
		t := domain.CertificateType(certType)
		if !t.Valid() {
			return nil, fmt.Errorf("award policy %s: unknown certificate type %q", path, certType)
		}
		for level, points := range levels {
			l := domain.CertificateLevel(level)
			if !l.Valid() {
				return nil, fmt.Errorf("award policy %s: unknown level %q", path, level)
			}
			if points < 0 || points > policy.maxOverride {
				return nil, fmt.Errorf("award policy %s: %s/%s value %d out of range [0, %d]",
					path, certType, level, points, policy.maxOverride)
			}
			policy.base[t][l] = points
		}
	}
	return policy, nil
}

// BaseValue returns the point value for a (type, level) pair.
func (p *AwardPolicy) BaseValue(t domain.CertificateType, l domain.CertificateLevel) int {
	return p.base[t][l]
}

// ResolveAward picks the awarded points for an approval: the approver's
// override when supplied (validated against the cap), otherwise the base
// table value.
func (p *AwardPolicy) ResolveAward(t domain.CertificateType, l domain.CertificateLevel, override *int) (int, error) {
	if override == nil {
		return p.BaseValue(t, l), nil
	}
	if *override < 0 || *override > p.maxOverride {
		return 0, domain.ErrValidation("awarded points must be between 0 and %d", p.maxOverride)
	}
	return *override, nil
}
