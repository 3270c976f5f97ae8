package domain

import "time"

type seedTask struct {
	title       string
	description string
	dueInDays   int
	priority    Priority
	checklist   []string
}

var seedProjectName = "Procrastination Station"

var seedTasks = []seedTask{
	{
		title:       "Triage the Todo Tsunami",
		description: "Sort the chaotic backlog into bite-sized, scheduled chunks.",
		dueInDays:   7,
		priority:    PriorityHigh,
		checklist:   []string{"List all pending tasks"},
	},
	{
		title:       "Make the Plan Plan",
		description: "Create a weekly planning ritual and write it down.",
		dueInDays:   14,
		priority:    PriorityMedium,
		checklist:   []string{"Choose a planning day", "Set reminders", "Review and adjust weekly"},
	},
	{
		title:       "Set Realistic Deadlines",
		description: "Establish achievable timelines to avoid burnout and ensure steady progress.",
		dueInDays:   21,
		priority:    PriorityLow,
	},
}

// SeedProjectsList returns the sample collection shown when nothing has been
// saved yet. Due dates are relative to now.
func SeedProjectsList(now time.Time) *ProjectsList {
	list := NewProjectsList()

	project, err := NewProject(seedProjectName)
	if err != nil {
		panic(err)
	}

	for _, st := range seedTasks {
		t, err := NewTask(st.title, st.description, now.AddDate(0, 0, st.dueInDays), st.priority, now)
		if err != nil {
			panic(err)
		}
		for _, text := range st.checklist {
			if _, err := t.AddChecklistItem(text); err != nil {
				panic(err)
			}
		}
		if err := project.AddTask(t); err != nil {
			panic(err)
		}
	}

	if err := list.AddProject(project); err != nil {
		panic(err)
	}
	return list
}
