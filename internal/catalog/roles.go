// Package catalog holds the fixed role catalog and the deterministic
// fallback records used when the model pipeline cannot produce a result
// in time.
package catalog

import "github.com/samvrith66/astra/internal/career"

var roles = []career.Role{
	{
		ID:          "ml-engineer",
		Title:       "ML Engineer",
		Description: "Design and build scalable machine learning systems.",
		Skills: career.SkillSet{
			Technical:    []string{"Python", "PyTorch", "TensorFlow", "Scikit-learn", "MLflow", "Docker", "SQL", "Statistics"},
			NonTechnical: []string{"Research mindset", "Technical writing", "Experimentation"},
		},
	},
	{
		ID:          "frontend-dev",
		Title:       "Frontend Developer",
		Description: "Create stunning, responsive user interfaces.",
		Skills: career.SkillSet{
			Technical:    []string{"JavaScript", "TypeScript", "React", "CSS", "HTML", "Git", "REST APIs", "Testing"},
			NonTechnical: []string{"UI/UX sense", "Attention to detail", "Communication"},
		},
	},
	{
		ID:          "backend-dev",
		Title:       "Backend Developer",
		Description: "Build robust server-side logic and APIs.",
		Skills: career.SkillSet{
			Technical:    []string{"Node.js", "Python", "Java", "SQL", "NoSQL", "REST APIs", "Docker", "Git", "Auth"},
			NonTechnical: []string{"System thinking", "Documentation", "Problem solving"},
		},
	},
	{
		ID:          "full-stack",
		Title:       "Full Stack Developer",
		Description: "Master both client and server-side development.",
		Skills: career.SkillSet{
			Technical:    []string{"JavaScript", "React", "Node.js", "SQL", "NoSQL", "REST APIs", "Git", "Docker"},
			NonTechnical: []string{"Communication", "Adaptability", "Time management"},
		},
	},
	{
		ID:          "data-scientist",
		Title:       "Data Scientist",
		Description: "Extract insights from complex data sets.",
		Skills: career.SkillSet{
			Technical:    []string{"Python", "Pandas", "NumPy", "Scikit-learn", "SQL", "Statistics", "Data Viz"},
			NonTechnical: []string{"Analytical thinking", "Storytelling", "Business acumen"},
		},
	},
	{
		ID:          "devops",
		Title:       "DevOps Engineer",
		Description: "Streamline deployment and operations.",
		Skills: career.SkillSet{
			Technical:    []string{"Linux", "Docker", "Kubernetes", "CI/CD", "AWS", "Terraform", "Ansible", "Bash"},
			NonTechnical: []string{"Incident management", "Documentation", "Collaboration"},
		},
	},
	{
		ID:          "cybersecurity",
		Title:       "Cybersecurity Analyst",
		Description: "Protect systems from digital threats.",
		Skills: career.SkillSet{
			Technical:    []string{"Networking", "Linux", "Python", "SIEM", "Penetration testing", "Cryptography", "Firewalls"},
			NonTechnical: []string{"Analytical thinking", "Attention to detail", "Ethics"},
		},
	},
	{
		ID:          "mobile-dev",
		Title:       "Mobile Developer",
		Description: "Build native applications for iOS and Android.",
		Skills: career.SkillSet{
			Technical:    []string{"React Native", "Flutter", "JavaScript", "Dart", "iOS/Android SDK", "REST APIs", "Git"},
			NonTechnical: []string{"UX intuition", "Performance mindset", "User empathy"},
		},
	},
	{
		ID:          "cloud-architect",
		Title:       "Cloud Architect",
		Description: "Design scalable cloud infrastructure.",
		Skills: career.SkillSet{
			Technical:    []string{"AWS", "GCP", "Azure", "Terraform", "Kubernetes", "Networking", "Security", "Microservices"},
			NonTechnical: []string{"Strategic thinking", "Communication", "Documentation"},
		},
	},
	{
		ID:          "blockchain-dev",
		Title:       "Blockchain Dev",
		Description: "Build decentralized applications and smart contracts.",
		Skills: career.SkillSet{
			Technical:    []string{"Solidity", "Web3.js", "JavaScript", "Smart contracts", "Ethereum", "Cryptography"},
			NonTechnical: []string{"Analytical thinking", "Continuous learning", "Community engagement"},
		},
	},
}

// Roles returns the full role catalog in display order. The returned
// slice is a copy; the catalog itself is not user-editable.
func Roles() []career.Role {
	out := make([]career.Role, len(roles))
	copy(out, roles)
	return out
}

// RoleByID looks up a catalog role. ok is false for unknown IDs.
func RoleByID(id string) (career.Role, bool) {
	for _, r := range roles {
		if r.ID == id {
			return r, true
		}
	}
	return career.Role{}, false
}
