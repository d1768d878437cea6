package domain

// Models возвращает все таблицы для AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&Course{},
		&Lesson{},
		&CourseSection{},
		&CourseTest{},
		&TestAttempt{},
		&Enrollment{},
		&Microcredential{},
		&MicrocredentialEnrollment{},
		&Favorite{},
	}
}
