package pipeline

import (
	"strings"

	"github.com/growthops/leadops-cli/internal/model"
)

// ClassifyTemperature buckets a nullable 0-5 rating. Anything outside
// the defined buckets, including a missing rating, is Null.
func ClassifyTemperature(rating *int) model.Temperature {
	if rating == nil {
		return model.TemperatureNull
	}
	switch *rating {
	case 0, 1:
		return model.TemperatureCold
	case 2, 3:
		return model.TemperatureWarm
	case 4, 5:
		return model.TemperatureHot
	default:
		return model.TemperatureNull
	}
}

// ClassifyPipelineStage derives the pipeline stage from the status code,
// the temperature bucket, and the activity counters. Evaluated in order,
// first match wins. The final Null arm is unreachable for well-formed
// integer counters but stands as the defined default.
func ClassifyPipelineStage(statusCode string, temp model.Temperature, followups, meetings int) model.PipelineStage {
	activity := followups + meetings
	switch {
	case strings.Contains(statusCode, "INVOICE"):
		return model.PipelineHot
	case temp == model.TemperatureHot:
		return model.PipelineHot
	case activity >= 2:
		return model.PipelineWarm
	case activity <= 1:
		return model.PipelineCold
	default:
		return model.PipelineNull
	}
}

// ClassifyDealOutcome derives the funnel bucket from the status code.
// Substring checks are ordered: a status containing both PAYMENT and
// INVOICE counts as a deal.
func ClassifyDealOutcome(statusCode string) model.DealOutcome {
	switch {
	case strings.Contains(statusCode, "PAYMENT"):
		return model.OutcomeDeal
	case strings.Contains(statusCode, "INVOICE"):
		return model.OutcomePipeline
	case statusCode == "PAID":
		return model.OutcomeDeal
	default:
		return model.OutcomeLeads
	}
}

// Classify tags one CRM record with all three derived categories.
// Classification never fails: malformed input falls through to the
// Null/leads defaults.
func Classify(rec model.CrmRecord) model.ClassifiedCrmRecord {
	temp := ClassifyTemperature(rec.Rating)
	return model.ClassifiedCrmRecord{
		CrmRecord:     rec,
		Temperature:   temp,
		PipelineStage: ClassifyPipelineStage(rec.StatusCode, temp, rec.CounterFollowup, rec.CounterMeeting),
		DealOutcome:   ClassifyDealOutcome(rec.StatusCode),
	}
}

// ClassifyAll maps Classify over a batch, preserving input order.
func ClassifyAll(recs []model.CrmRecord) []model.ClassifiedCrmRecord {
	out := make([]model.ClassifiedCrmRecord, len(recs))
	for i, r := range recs {
		out[i] = Classify(r)
	}
	return out
}
