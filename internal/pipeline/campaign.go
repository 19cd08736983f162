package pipeline

import (
	"strings"

	"github.com/growthops/leadops-cli/internal/model"
)

// TagCampaign derives the campaign source and adset from a hyphen-
// delimited campaign name. The "regtiktok" prefix must be tested before
// the looser "reg" prefix or TikTok campaigns would classify as Facebook.
//
// Google campaign names follow "<prefix>-<adset>-...", so the adset is
// the second segment; every other source uses the first segment. A
// google-sourced name with fewer than two segments has no adset segment
// to take and yields an empty adset.
func TagCampaign(name string) (model.CampaignSource, string) {
	source := campaignSource(name)

	segments := strings.Split(name, "-")
	switch source {
	case model.SourceGoogle:
		if len(segments) < 2 {
			return source, ""
		}
		return source, segments[1]
	default:
		return source, segments[0]
	}
}

func campaignSource(name string) model.CampaignSource {
	switch {
	case strings.HasPrefix(name, "ggl"):
		return model.SourceGoogle
	case strings.HasPrefix(name, "regtiktok"):
		return model.SourceTikTok
	case strings.HasPrefix(name, "reg"):
		return model.SourceFacebook
	default:
		return model.SourceUndefined
	}
}

// Normalize derives the campaign and phone fields for a labeled lead.
func Normalize(lead model.LabeledLead) model.NormalizedLead {
	source, adset := TagCampaign(lead.CampaignName)
	return model.NormalizedLead{
		LabeledLead:     lead,
		CampaignSource:  source,
		Adset:           adset,
		PhoneNormalized: NormalizePhone(lead.Phone),
	}
}

// NormalizeAll maps Normalize over a batch, preserving input order.
func NormalizeAll(leads []model.LabeledLead) []model.NormalizedLead {
	out := make([]model.NormalizedLead, len(leads))
	for i, l := range leads {
		out[i] = Normalize(l)
	}
	return out
}
