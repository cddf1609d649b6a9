package i18n

var english = &Bundle{
	Code: "en",
	Name: "English",
	Labels: Labels{
		Title:                        "Track Your Kid's Academic Progress",
		Student:                      "Student",
		Grade:                        "Grade",
		Subject:                      "Subject",
		Language:                     "Language",
		ExamFormat:                   "Exam %d",
		Average:                      "Average",
		DownloadApp:                  "Download the app now!",
		PerformanceOverview:          "Performance Overview",
		DetailedExamPerformance:      "Detailed Exam Performance",
		PerformanceOverTime:          "Performance Over Time",
		SubjectPerformanceComparison: "Subject Performance Comparison",
		Score:                        "Score",
		Export:                       "Export",
		NoData:                       "No data",
		Of:                           "of",
		In:                           "in",
	},
	Grades: map[string]string{
		"K":    "Kindergarten",
		"1st":  "1st",
		"2nd":  "2nd",
		"3rd":  "3rd",
		"4th":  "4th",
		"5th":  "5th",
		"6th":  "6th",
		"7th":  "7th",
		"8th":  "8th",
		"9th":  "9th",
		"10th": "10th",
		"11th": "11th",
		"12th": "12th",
	},
	Subjects: map[string]string{
		"Math":          "Math",
		"Science":       "Science",
		"History":       "History",
		"Matematicas":   "Mathematics",
		"Literatura":    "Literature",
		"English":       "English",
		"Deporte":       "Sport",
		"Geography":     "Geography",
		"Art":           "Art",
		"Biologia":      "Biology",
		"Orientacion":   "Guidance",
		"Participacion": "Participation",
	},
}

var spanish = &Bundle{
	Code: "es",
	Name: "Español",
	Labels: Labels{
		Title:                        "Seguimiento del Progreso Académico de su Hijo",
		Student:                      "Estudiante",
		Grade:                        "Grado",
		Subject:                      "Materia",
		Language:                     "Idioma",
		ExamFormat:                   "Lapso %d",
		Average:                      "Promedio",
		DownloadApp:                  "¡Descargue la aplicación ahora!",
		PerformanceOverview:          "Resumen de Desempeño",
		DetailedExamPerformance:      "Desempeño Detallado en Exámenes",
		PerformanceOverTime:          "Desempeño a lo Largo del Tiempo",
		SubjectPerformanceComparison: "Comparación de Desempeño por Materia",
		Score:                        "Nota",
		Export:                       "Exportar",
		NoData:                       "Sin datos",
		Of:                           "de",
		In:                           "en",
	},
	Grades: map[string]string{
		"K":    "Kinder",
		"1st":  "1ro",
		"2nd":  "2do",
		"3rd":  "3ro",
		"4th":  "4to",
		"5th":  "5to",
		"6th":  "6to",
		"7th":  "7mo",
		"8th":  "8vo",
		"9th":  "9no",
		"10th": "10mo",
		"11th": "11vo",
		"12th": "12vo",
	},
	Subjects: map[string]string{
		"Math":          "Matemáticas",
		"Science":       "Ciencias",
		"History":       "Historia",
		"Matematicas":   "Matemáticas",
		"Literatura":    "Literatura",
		"English":       "Inglés",
		"Deporte":       "Deporte",
		"Geography":     "Geografía",
		"Art":           "Arte",
		"Biologia":      "Biología",
		"Orientacion":   "Orientación",
		"Participacion": "Participación",
	},
}
