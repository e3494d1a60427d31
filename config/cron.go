package config

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

var CronJobs = map[string]CronJob{
	// Jobs register themselves via RegisterCronJob from init() to avoid an
	// import cycle with packages that read config.
}

// RegisterCronJob adds a built-in job. Call from init() in the jobs package.
func RegisterCronJob(name, schedule string, job func(...string)) {
	CronJobs[name] = CronJob{Schedule: schedule, Job: job}
}
