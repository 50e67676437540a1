package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/courseforge/internal/export"
	"github.com/abhisek/courseforge/internal/roadmap"
	"github.com/abhisek/courseforge/internal/tui"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Work with learning roadmaps",
}

var roadmapPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a roadmap's node grid in the terminal",
	Long: `Render a roadmap built from a course in a generated catalog (--course-file
with --course-id), or from a skill tag and title using the built-in curricula
(--skill-tag, --title).`,
	Example: `  courseforge roadmap preview --course-file data/technical_courses.json --course-id tech-0001
  courseforge roadmap preview --skill-tag react --title "React Basics"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		courseFile, _ := cmd.Flags().GetString("course-file")
		courseID, _ := cmd.Flags().GetString("course-id")
		skillTag, _ := cmd.Flags().GetString("skill-tag")
		title, _ := cmd.Flags().GetString("title")

		rm, err := previewRoadmap(courseFile, courseID, skillTag, title)
		if err != nil {
			return err
		}
		if err := roadmap.Validate(rm.Nodes); err != nil {
			appLog.Warn("roadmap failed validation", "course_id", rm.CourseID, "error", err)
		}
		fmt.Println(tui.RenderRoadmap(rm))
		return nil
	},
}

func previewRoadmap(courseFile, courseID, skillTag, title string) (roadmap.Roadmap, error) {
	if courseFile == "" {
		if courseID != "" {
			return roadmap.Roadmap{}, fmt.Errorf("--course-id requires --course-file")
		}
		if title == "" {
			title = skillTag
		}
		return roadmap.Roadmap{
			Title:       title,
			Description: roadmap.DefaultDescription(title),
			SkillTag:    skillTag,
			Nodes:       roadmap.BuildNodes(nil, skillTag, title),
		}, nil
	}

	courses, err := export.ReadCourses(courseFile)
	if err != nil {
		return roadmap.Roadmap{}, err
	}
	if len(courses) == 0 {
		return roadmap.Roadmap{}, fmt.Errorf("%s contains no courses", courseFile)
	}
	if courseID == "" {
		return roadmap.FromCourse(courses[0]), nil
	}
	for _, c := range courses {
		if c.ID == courseID {
			return roadmap.FromCourse(c), nil
		}
	}
	return roadmap.Roadmap{}, fmt.Errorf("course %q not found in %s", courseID, courseFile)
}

func init() {
	f := roadmapPreviewCmd.Flags()
	f.String("course-file", "", "Generated course catalog (json or yaml, optionally .br)")
	f.String("course-id", "", "Course to preview (default: the first course in the file)")
	f.String("skill-tag", "", "Skill tag used to pick a built-in curriculum")
	f.String("title", "", "Roadmap title")

	roadmapCmd.AddCommand(roadmapPreviewCmd)
}
