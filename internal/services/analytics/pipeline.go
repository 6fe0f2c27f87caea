package analytics

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"paydash/internal/models"
	"paydash/internal/utils"
)

// Row shapes decoded from the aggregation cursor. The tenant $match is
// prepended by the repository, so pipelines here start after tenant scoping.

type overallRow struct {
	TotalVolume   float64 `bson:"totalVolume"`
	TotalCount    int64   `bson:"totalCount"`
	AverageAmount float64 `bson:"averageAmount"`
}

type countRow struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

type hourRow struct {
	ID    int   `bson:"_id"`
	Count int64 `bson:"count"`
}

type metricsFacet struct {
	Overall      []overallRow `bson:"overall"`
	StatusCounts []countRow   `bson:"statusCounts"`
	MethodCounts []countRow   `bson:"methodCounts"`
	HourCounts   []hourRow    `bson:"hourCounts"`
}

type trendKey struct {
	Year  int `bson:"year"`
	Month int `bson:"month"`
	Day   int `bson:"day"`
	Week  int `bson:"week"`
}

type trendRow struct {
	ID           trendKey `bson:"_id"`
	Amount       float64  `bson:"amount"`
	Count        int64    `bson:"count"`
	SuccessCount int64    `bson:"successCount"`
}

// buildMetricsPipeline produces four parallel reductions in one $facet pass:
// overall sums, per-status counts, the top payment method and the peak hour.
func buildMetricsPipeline(rng *models.DateRange) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if rng != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"createdAt": bson.M{"$gte": rng.Start, "$lte": rng.End},
		}}})
	}

	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.M{
		"overall": mongo.Pipeline{
			bson.D{{Key: "$group", Value: bson.M{
				"_id":           nil,
				"totalVolume":   bson.M{"$sum": "$amount"},
				"totalCount":    bson.M{"$sum": 1},
				"averageAmount": bson.M{"$avg": "$amount"},
			}}},
		},
		"statusCounts": mongo.Pipeline{
			bson.D{{Key: "$group", Value: bson.M{
				"_id":   "$status",
				"count": bson.M{"$sum": 1},
			}}},
		},
		"methodCounts": mongo.Pipeline{
			bson.D{{Key: "$group", Value: bson.M{
				"_id":   "$method",
				"count": bson.M{"$sum": 1},
			}}},
			// count desc then _id keeps ties deterministic
			bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
			bson.D{{Key: "$limit", Value: 1}},
		},
		"hourCounts": mongo.Pipeline{
			bson.D{{Key: "$group", Value: bson.M{
				"_id":   bson.M{"$hour": "$createdAt"},
				"count": bson.M{"$sum": 1},
			}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
			bson.D{{Key: "$limit", Value: 1}},
		},
	}}})

	return pipeline
}

// buildMetrics maps the facet rows onto the Metrics shape, applying the
// empty-input defaults and the rounding rules.
func buildMetrics(facet metricsFacet) *models.Metrics {
	var overall overallRow
	if len(facet.Overall) > 0 {
		overall = facet.Overall[0]
	}

	statusCounts := make(map[string]int64, len(facet.StatusCounts))
	for _, row := range facet.StatusCounts {
		statusCounts[row.ID] = row.Count
	}

	topMethod := models.PaymentMethodUPI
	if len(facet.MethodCounts) > 0 {
		topMethod = facet.MethodCounts[0].ID
	}

	peakHour := 0
	if len(facet.HourCounts) > 0 {
		peakHour = facet.HourCounts[0].ID
	}

	successCount := statusCounts[models.PaymentStatusSuccess]
	successRate := 0.0
	if overall.TotalCount > 0 {
		successRate = float64(successCount) / float64(overall.TotalCount) * 100
	}

	return &models.Metrics{
		TotalVolume:      overall.TotalVolume,
		SuccessRate:      utils.Round1(successRate),
		AverageAmount:    utils.Round2(overall.AverageAmount),
		PeakHour:         peakHour,
		TopPaymentMethod: topMethod,
		TotalCount:       overall.TotalCount,
		SuccessCount:     successCount,
		FailedCount:      statusCounts[models.PaymentStatusFailed],
		RefundedCount:    statusCounts[models.PaymentStatusRefunded],
	}
}

// buildTrendsPipeline groups payments by the period bucket key and counts
// successes alongside the sums so the rate never has to be derived from a
// previously rounded value.
func buildTrendsPipeline(period string) mongo.Pipeline {
	var groupID bson.M
	switch period {
	case models.PeriodWeek:
		groupID = bson.M{
			"year": bson.M{"$year": "$createdAt"},
			"week": bson.M{"$week": "$createdAt"},
		}
	case models.PeriodMonth:
		groupID = bson.M{
			"year":  bson.M{"$year": "$createdAt"},
			"month": bson.M{"$month": "$createdAt"},
		}
	default: // day
		groupID = bson.M{
			"year":  bson.M{"$year": "$createdAt"},
			"month": bson.M{"$month": "$createdAt"},
			"day":   bson.M{"$dayOfMonth": "$createdAt"},
		}
	}

	return mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":    groupID,
			"amount": bson.M{"$sum": "$amount"},
			"count":  bson.M{"$sum": 1},
			"successCount": bson.M{"$sum": bson.M{
				"$cond": bson.A{
					bson.M{"$eq": bson.A{"$status", models.PaymentStatusSuccess}},
					1,
					0,
				},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
			{Key: "_id.day", Value: 1},
			{Key: "_id.week", Value: 1},
		}}},
	}
}

// buildTrendPoints converts group keys back to UTC bucket-start instants and
// applies the rate rounding rule.
func buildTrendPoints(period string, rows []trendRow) []models.TrendPoint {
	points := make([]models.TrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, models.TrendPoint{
			Timestamp:   bucketStartForKey(period, row.ID),
			Amount:      row.Amount,
			Count:       row.Count,
			SuccessRate: utils.Round1(float64(row.SuccessCount) / float64(row.Count) * 100),
		})
	}
	return points
}

func bucketStartForKey(period string, key trendKey) time.Time {
	switch period {
	case models.PeriodWeek:
		return models.WeekBucketStart(key.Year, key.Week)
	case models.PeriodMonth:
		return time.Date(key.Year, time.Month(key.Month), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(key.Year, time.Month(key.Month), key.Day, 0, 0, 0, 0, time.UTC)
	}
}
