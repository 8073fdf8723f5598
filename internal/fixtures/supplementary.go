package fixtures

// Supplementary returns the hand-written entries merged after loaded data.
func Supplementary() Set {
	return Set{
		Authors: []Author{
			{
				Name:        "Dr. Émilie Bernard",
				Slug:        "emilie-bernard",
				Title:       "Docteure en Neurosciences",
				Affiliation: "Institut du Cerveau",
				Bio:         "Dr. Émilie Bernard est spécialisée dans l'étude des maladies neurodégénératives et le développement de thérapies innovantes.",
				Expertise:   []string{"Neurosciences", "Maladies neurodégénératives", "Thérapie génique", "Neurobiologie"},
				Education: []Education{
					{Degree: "Doctorat en Neurosciences", Institution: "Université de Lyon", Year: "2015"},
				},
				Email:     ptr("emilie.bernard@icm.fr"),
				Twitter:   ptr("@EmilieNeuro"),
				LinkedIn:  ptr("emilie-bernard-neuro"),
				Citations: ptr(1580),
				HIndex:    ptr(17),
			},
			{
				Name:        "Prof. Marc Lambert",
				Slug:        "marc-lambert",
				Title:       "Professeur en Robotique",
				Affiliation: "INRIA",
				Bio:         "Prof. Marc Lambert est un expert en robotique et intelligence artificielle, spécialisé dans les systèmes autonomes et la robotique collaborative.",
				Expertise:   []string{"Robotique", "IA", "Systèmes autonomes", "Robotique collaborative"},
				Education: []Education{
					{Degree: "Doctorat en Robotique", Institution: "École Centrale Paris", Year: "2008"},
				},
				Email:     ptr("marc.lambert@inria.fr"),
				Twitter:   ptr("@MarcRobotics"),
				LinkedIn:  ptr("marc-lambert-robotics"),
				Citations: ptr(2800),
				HIndex:    ptr(24),
			},
		},
		Articles: []Article{
			{
				Title:       "Plasticité cérébrale et récupération post-AVC",
				Slug:        "brain-plasticity",
				Description: "Une étude approfondie des mécanismes de plasticité cérébrale impliqués dans la récupération après un AVC.",
				Content:     "La plasticité cérébrale est un mécanisme fondamental...",
				PublishedAt: "2025-06-01",
				ReadTime:    "13 min",
				Featured:    true,
				Views:       1890,
				Citations:   16,
				Category:    Ref{Name: "Neurosciences", Slug: "neurosciences"},
				Author:      Ref{Name: "Dr. Émilie Bernard", Slug: "emilie-bernard"},
				Tags:        []string{"plasticité cérébrale", "AVC", "réhabilitation", "neurosciences"},
			},
			{
				Title:       "Robotique collaborative: Nouveaux paradigmes d'interaction",
				Slug:        "robot-collaboration",
				Description: "Analyse des dernières avancées en robotique collaborative et leurs implications pour l'industrie 4.0.",
				Content:     "La robotique collaborative transforme rapidement notre approche de l'automatisation...",
				PublishedAt: "2025-06-15",
				ReadTime:    "10 min",
				Featured:    true,
				Views:       2100,
				Citations:   12,
				Category:    Ref{Name: "Robotique", Slug: "robotique"},
				Author:      Ref{Name: "Prof. Marc Lambert", Slug: "marc-lambert"},
				Tags:        []string{"robotique", "collaboration", "industrie 4.0", "automatisation"},
			},
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
