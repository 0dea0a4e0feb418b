package models

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Workspace{},
		&WorkspaceMember{},
		&Client{},
		&Project{},
		&Tab{},
		&Block{},
		&TaskItem{},
		&Subtask{},
		&TableRow{},
		&TimelineEvent{},
		&TimelineDependency{},
		&EntityProperties{},
		&PropertyDefinition{},
		&EntityPropertyValue{},
		&EntityLink{},
		&InheritedDisplay{},
	}
}
