package catalog

import "github.com/samvrith66/astra/internal/career"

// FallbackGapAnalysis returns the hand-authored gap analysis shown when
// the model cannot be reached within the pipeline's time budget. The
// record is fully populated and deterministic so callers (and tests) can
// rely on exact equality.
func FallbackGapAnalysis() career.GapAnalysis {
	return career.GapAnalysis{
		ReadinessScore: 55,
		Strengths: []career.Strength{
			{Skill: "Programming Fundamentals", Level: "proficient"},
			{Skill: "Problem Solving", Level: "proficient"},
		},
		CriticalGaps: []career.CriticalGap{
			{Skill: "PyTorch/TensorFlow", Priority: "high", Reason: "Core ML framework required", EstimatedDays: 14},
			{Skill: "Machine Learning Theory", Priority: "high", Reason: "Foundational knowledge needed", EstimatedDays: 10},
			{Skill: "Data Processing with Pandas", Priority: "high", Reason: "Essential for data manipulation", EstimatedDays: 7},
		},
		NiceToHaveGaps: []career.NiceToHaveGap{
			{Skill: "CUDA Programming", Reason: "GPU acceleration"},
			{Skill: "MLflow", Reason: "Experiment tracking"},
		},
		ExperienceLevel:        career.LevelIntermediate,
		Summary:                "You have a solid programming foundation. Focus on ML-specific frameworks and mathematical concepts to reach your target role.",
		WeeklyHoursNeeded:      10,
		EstimatedMonthsToReady: 3,
	}
}

// FallbackRoadmap returns the static 30-day roadmap template used when
// generation fails or times out. Progress is initialized empty; the
// planner overlays any persisted progress afterwards.
func FallbackRoadmap() career.Roadmap {
	return career.Roadmap{
		Progress: map[string]bool{},
		Weeks: []career.Week{
			{
				WeekNumber: 1,
				Theme:      "Foundations",
				Days: []career.Day{
					{Day: 1, Focus: "Understand ML basics", Resource: career.Resource{Title: "Google Crash Course", URL: "https://developers.google.com/machine-learning/crash-course"}},
					{Day: 2, Focus: "NumPy and Pandas basics", Resource: career.Resource{Title: "NumPy Docs", URL: "https://numpy.org/learn/"}},
					{Day: 3, Focus: "Matplotlib and Seaborn", Resource: career.Resource{Title: "Matplotlib Tutorials", URL: "https://matplotlib.org/stable/tutorials/index.html"}},
					{Day: 4, Focus: "Data manipulation", Resource: career.Resource{Title: "Pandas Docs", URL: "https://pandas.pydata.org/docs/"}},
					{Day: 5, Focus: "Probability and statistics", Resource: career.Resource{Title: "Khan Academy", URL: "https://www.khanacademy.org/math/statistics-probability"}},
					{Day: 6, Focus: "Vectors and matrices", Resource: career.Resource{Title: "Linear Algebra", URL: "https://www.khanacademy.org/math/linear-algebra"}},
					{Day: 7, Focus: "Apply all concepts", Resource: career.Resource{Title: "Kaggle", URL: "https://www.kaggle.com/"}},
				},
			},
			{
				WeekNumber: 2,
				Theme:      "Machine Learning Core",
				Days: []career.Day{
					{Day: 8, Focus: "Supervised vs Unsupervised Learning", Resource: career.Resource{Title: "Google Crash Course", URL: "https://developers.google.com/machine-learning/crash-course"}},
					{Day: 9, Focus: "Linear Regression", Resource: career.Resource{Title: "Scikit-Learn", URL: "https://scikit-learn.org/"}},
					{Day: 10, Focus: "Logistic Regression", Resource: career.Resource{Title: "Scikit-Learn", URL: "https://scikit-learn.org/"}},
					{Day: 11, Focus: "Model evaluation metrics", Resource: career.Resource{Title: "Scikit-Learn", URL: "https://scikit-learn.org/"}},
					{Day: 12, Focus: "Train/Test split", Resource: career.Resource{Title: "Scikit-Learn", URL: "https://scikit-learn.org/"}},
					{Day: 13, Focus: "Feature engineering", Resource: career.Resource{Title: "Data Prep", URL: "https://developers.google.com/machine-learning/data-prep"}},
					{Day: 14, Focus: "Mini ML project", Resource: career.Resource{Title: "Kaggle", URL: "https://www.kaggle.com/"}},
				},
			},
			{
				WeekNumber: 3,
				Theme:      "Deep Learning",
				Days: []career.Day{
					{Day: 15, Focus: "Neural network basics", Resource: career.Resource{Title: "DeepLearning.AI", URL: "https://www.deeplearning.ai/"}},
					{Day: 16, Focus: "Forward and backpropagation", Resource: career.Resource{Title: "CS231n", URL: "https://cs231n.github.io/"}},
					{Day: 17, Focus: "TensorFlow basics", Resource: career.Resource{Title: "TensorFlow", URL: "https://www.tensorflow.org/tutorials"}},
					{Day: 18, Focus: "PyTorch basics", Resource: career.Resource{Title: "PyTorch", URL: "https://pytorch.org/tutorials/"}},
					{Day: 19, Focus: "Training neural networks", Resource: career.Resource{Title: "PyTorch Blitz", URL: "https://pytorch.org/tutorials/"}},
					{Day: 20, Focus: "Regularization and overfitting", Resource: career.Resource{Title: "Overfitting", URL: "https://developers.google.com/machine-learning/crash-course/overfitting"}},
					{Day: 21, Focus: "Deep learning project", Resource: career.Resource{Title: "Kaggle", URL: "https://www.kaggle.com/"}},
				},
			},
			{
				WeekNumber: 4,
				Theme:      "Deployment and MLOps",
				Days: []career.Day{
					{Day: 22, Focus: "Model deployment basics", Resource: career.Resource{Title: "FastAPI", URL: "https://fastapi.tiangolo.com/"}},
					{Day: 23, Focus: "Build ML API", Resource: career.Resource{Title: "FastAPI Tutorial", URL: "https://fastapi.tiangolo.com/tutorial/"}},
					{Day: 24, Focus: "Model serialization", Resource: career.Resource{Title: "Scikit-Learn", URL: "https://scikit-learn.org/"}},
					{Day: 25, Focus: "Deploy using FastAPI", Resource: career.Resource{Title: "FastAPI", URL: "https://fastapi.tiangolo.com/"}},
					{Day: 26, Focus: "Intro to MLOps", Resource: career.Resource{Title: "MLflow", URL: "https://mlflow.org/docs/latest/index.html"}},
					{Day: 27, Focus: "Model monitoring", Resource: career.Resource{Title: "Neptune.ai", URL: "https://neptune.ai/blog/ml-monitoring"}},
					{Day: 28, Focus: "Capstone project", Resource: career.Resource{Title: "Kaggle", URL: "https://www.kaggle.com/"}},
					{Day: 29, Focus: "Optimize model", Resource: career.Resource{Title: "Scikit-Learn", URL: "https://scikit-learn.org/"}},
					{Day: 30, Focus: "Deploy portfolio project", Resource: career.Resource{Title: "GitHub", URL: "https://github.com/"}},
				},
			},
		},
	}
}
