package form

import (
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/jsonutil"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
)

// DefaultTimezone is used when a schedule names no timezone.
const DefaultTimezone = "Asia/Shanghai"

// Schedule is the body of the create schedule call.
type Schedule struct {
	ProcessCode             int64
	Schedule                models.Schedule
	FailureStrategy         code.FailureStrategy
	WarningType             code.WarningType
	ProcessInstancePriority code.Priority
	WarningGroupID          *int64
	WorkerGroup             string
	EnvironmentCode         *int64
	Deadline                *int64
}

// CronSchedule runs processCode on crontab from today 00:00 for the next
// hundred years.
func CronSchedule(processCode int64, crontab, workerGroup, timezoneID string, now time.Time) *Schedule {
	if timezoneID == "" {
		timezoneID = DefaultTimezone
	}
	start := models.Midnight(now)
	return &Schedule{
		ProcessCode: processCode,
		Schedule: models.Schedule{
			StartTime:  start,
			EndTime:    start.AddDate(100, 0, 0),
			Crontab:    crontab,
			TimezoneID: timezoneID,
		},
		FailureStrategy:         code.FailureStrategyContinue,
		WarningType:             code.WarningTypeNone,
		ProcessInstancePriority: code.PriorityMedium,
		WorkerGroup:             workerGroup,
	}
}

var quartzParser = cron.NewParser(
	cron.Second |
		cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow,
)

// parseQuartz parses a Quartz crontab. The optional seventh (year) field
// must be * or ?.
func parseQuartz(expr string) (cron.Schedule, error) {
	fields := strings.Fields(expr)
	switch len(fields) {
	case 6:
	case 7:
		if year := fields[6]; year != "*" && year != "?" {
			return nil, errors.Errorf("unsupported year field %q", year)
		}
		fields = fields[:6]
	default:
		return nil, errors.Errorf("expected 6 or 7 fields, found %d", len(fields))
	}
	dow, err := quartzDayOfWeek(fields[5])
	if err != nil {
		return nil, err
	}
	fields[5] = dow
	return quartzParser.Parse(strings.Join(fields, " "))
}

// quartzDayOfWeek renumbers a Quartz day-of-week field (1-7, Sunday is 1)
// to the 0-6 range the cron parser expects. Names and steps are kept.
func quartzDayOfWeek(field string) (string, error) {
	items := strings.Split(field, ",")
	for i, item := range items {
		rangeAndStep := strings.SplitN(item, "/", 2)
		bounds := strings.Split(rangeAndStep[0], "-")
		for j, bound := range bounds {
			n, err := strconv.Atoi(bound)
			if err != nil {
				continue
			}
			if n < 1 || n > 7 {
				return "", errors.Errorf("day of week %d out of range [1,7]", n)
			}
			bounds[j] = strconv.Itoa(n - 1)
		}
		rangeAndStep[0] = strings.Join(bounds, "-")
		items[i] = strings.Join(rangeAndStep, "/")
	}
	return strings.Join(items, ","), nil
}

// Validate checks the crontab, timezone and time window.
func (f *Schedule) Validate() error {
	if f.ProcessCode == 0 {
		return errors.New("schedule has no process code")
	}
	if _, err := parseQuartz(f.Schedule.Crontab); err != nil {
		return errors.Wrapf(err, "invalid crontab %q", f.Schedule.Crontab)
	}
	if _, err := time.LoadLocation(f.Schedule.TimezoneID); err != nil {
		return errors.Wrapf(err, "invalid timezone %q", f.Schedule.TimezoneID)
	}
	if !f.Schedule.EndTime.After(f.Schedule.StartTime) {
		return errors.New("schedule ends before it starts")
	}
	return nil
}

// Next returns the first fire time after t in the schedule's timezone.
func (f *Schedule) Next(t time.Time) (time.Time, error) {
	sched, err := parseQuartz(f.Schedule.Crontab)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid crontab %q", f.Schedule.Crontab)
	}
	loc, err := time.LoadLocation(f.Schedule.TimezoneID)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid timezone %q", f.Schedule.TimezoneID)
	}
	return sched.Next(t.In(loc)), nil
}

func (f *Schedule) Values() (url.Values, error) {
	schedule, err := jsonutil.MarshalString(f.Schedule)
	if err != nil {
		return nil, err
	}

	v := url.Values{}
	v.Set("schedule", schedule)
	v.Set("failureStrategy", f.FailureStrategy.Wire())
	v.Set("warningType", f.WarningType.Wire())
	v.Set("processInstancePriority", f.ProcessInstancePriority.Wire())
	v.Set("warningGroupId", optional(f.WarningGroupID))
	v.Set("workerGroup", f.WorkerGroup)
	v.Set("environmentCode", optional(f.EnvironmentCode))
	v.Set("processDefinitionCode", strconv.FormatInt(f.ProcessCode, 10))
	v.Set("deadline", optional(f.Deadline))
	return v, nil
}
