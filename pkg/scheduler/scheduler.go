package scheduler

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/sales793/torenius-timber/pkg/utils"
)

// TaskRunFunction executes one scheduled task.
type TaskRunFunction func(cfg *utils.Config) error

// Task is a single scheduled job: a unique key, a five-field cron spec, and a
// run function bound when the schedule is loaded.
type Task struct {
	Key  string `yaml:"key"`
	Spec string `yaml:"spec"`

	Run TaskRunFunction `yaml:"-"`
}

// Manager handles scheduling and execution of notification tasks
type Manager struct {
	cfg   *utils.Config
	cron  *cron.Cron
	mutex sync.RWMutex
	tasks map[string]*Task
}

// NewManager creates a new scheduler manager
func NewManager(cfg *utils.Config) *Manager {
	return &Manager{
		cfg:   cfg,
		cron:  cron.New(),
		tasks: make(map[string]*Task),
	}
}

// Load registers a list of tasks with the manager
func (m *Manager) Load(tasks []*Task) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, task := range tasks {
		if err := m.loadTask(task); err != nil {
			return fmt.Errorf("failed to load task '%s': %w", task.Key, err)
		}
	}

	return nil
}

// loadTask registers a single task (called with mutex held)
func (m *Manager) loadTask(task *Task) error {
	if task.Key == "" {
		return fmt.Errorf("task key cannot be empty")
	}
	if task.Spec == "" {
		return fmt.Errorf("task spec cannot be empty")
	}
	if task.Run == nil {
		return fmt.Errorf("task has no run function bound")
	}

	if _, err := m.cron.AddFunc(task.Spec, func() {
		m.executeTask(task)
	}); err != nil {
		return err
	}

	m.tasks[task.Key] = task
	return nil
}

// executeTask runs a task, logging failures. Scheduled runs never panic the
// process; a failed tick is retried only at the next tick.
func (m *Manager) executeTask(task *Task) {
	log.Printf("[SCHEDULER]: Executing task '%s'", task.Key)

	if err := task.Run(m.cfg); err != nil {
		log.Printf("[SCHEDULER]: Task '%s' failed: %v", task.Key, err)
		return
	}

	log.Printf("[SCHEDULER]: Task '%s' completed", task.Key)
}

// RunNow executes a loaded task immediately, outside its schedule.
func (m *Manager) RunNow(key string) error {
	m.mutex.RLock()
	task, ok := m.tasks[key]
	m.mutex.RUnlock()

	if !ok {
		return fmt.Errorf("no task loaded with key '%s'", key)
	}
	return task.Run(m.cfg)
}

// Tasks returns all loaded tasks
func (m *Manager) Tasks() []*Task {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tasks := make([]*Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}

// Start begins the cron loop
func (m *Manager) Start() {
	m.cron.Start()
}

// Stop gracefully stops the manager
func (m *Manager) Stop() {
	m.cron.Stop()
}

// scheduleFile is the YAML shape of an on-disk schedule override.
type scheduleFile struct {
	Tasks []*Task `yaml:"tasks"`
}

// LoadSchedule reads task keys and cron specs from a YAML file. Run functions
// are bound by the caller afterwards.
func LoadSchedule(path string) ([]*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}

	var file scheduleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schedule file: %w", err)
	}

	return file.Tasks, nil
}
