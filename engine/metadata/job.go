package metadata

/** Definition for jobs. Results are handed to the completion callbacks through the channel. */
type JobStart func(params interface{}, results chan<- interface{}) error

/** Definition for completion of a job. */
type JobOnComplete func(results <-chan interface{})

/** @brief Describes a type of job */
type JobType int

const (
	/**
	 * @brief A general job that does not have any specific thread requirements.
	 */
	JOB_TYPE_GENERAL JobType = 0x02
	/**
	 * @brief Collision cooking for a procedural mesh.
	 */
	JOB_TYPE_COLLISION_COOK JobType = 0x04
)

/**
 * @brief Describes a job to be run.
 */
type JobTask struct {
	/** @brief The type of job. */
	JobType JobType
	/** @brief Invoked when the job starts. Required. */
	OnStart JobStart
	/** @brief Invoked when OnStart returns nil. Optional. */
	OnComplete JobOnComplete
	/** @brief Invoked when OnStart fails. Optional. */
	OnFailure JobOnComplete
	/** @brief Invoked after either of the above. Optional. */
	OnCompletionCallback func()
	/** @brief Data passed to OnStart. */
	InputParams interface{}
}
